package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yourusername/tile-inventory/internal/delivery/web"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "HTTP port (defaults to HTTP_PORT)")
	return cmd
}

func runServe(parent context.Context, port string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger.Infof("🚀 Ilova ishga tushmoqda...")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, key := range cfg.GeneratedSecrets {
		switch key {
		case "ADMIN_PASSWORD":
			logger.Infof("ADMIN_PASSWORD bo'sh. Vaqtinchalik parol: %s", cfg.AdminPassword)
		default:
			logger.Infof("%s bo'sh. Vaqtinchalik qiymat yaratildi", key)
		}
	}
	if cfg.AppsScriptURL == "" {
		logger.Infof("Secretlar yetishmayapti (APPS_SCRIPT_URL). Server vaqtincha ishga tushmaydi.")
		<-ctx.Done()
		return nil
	}

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.stores.Close()

	warmCtx, cancelWarm := withTimeout(ctx, cfg.AppsScriptTimeout)
	if err := a.catalog.Warm(warmCtx); err != nil {
		logger.Warnf("⚠️ Product cache not warmed: %v", err)
	}
	cancelWarm()

	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	server, err := web.NewServer(web.Deps{
		Brands:    a.brands,
		Customers: a.customers,
		Catalog:   a.catalog,
		BulkEdit:  a.bulkEdit,
		Products:  a.products,
		Sales:     a.sales,
		Backup:    a.backup,
	}, web.Options{
		AdminPassword:  cfg.AdminPassword,
		JWTSecret:      cfg.JWTSecret,
		SessionTTL:     cfg.SessionTTL,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.SecureCookies,
	})
	if err != nil {
		return err
	}
	server.StartCleanup(ctx)

	if port == "" {
		port = cfg.HTTPPort
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("✅ Server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Infof("👋 Server exited")
	return nil
}
