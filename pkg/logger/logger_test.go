package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestUseRoutesEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Use(zap.New(core))
	defer Use(nil)

	Info("http request", "path", "/catalog", "status", 200)
	Warnf("⚠️ %d product(s) failed", 2)
	Debugf("hidden")

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Message != "http request" || entries[0].ContextMap()["path"] != "/catalog" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Message != "⚠️ 2 product(s) failed" || entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestInitFallsBackToInfo(t *testing.T) {
	if err := Init("shouting", "json"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Use(nil)
	if !get().Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be enabled")
	}
	if get().Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be disabled")
	}
}
