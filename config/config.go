package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourusername/tile-inventory/internal/domain/constants"
)

// Config holds the application configuration.
type Config struct {
	HTTPPort          string
	AllowedOrigins    []string
	AllowEmptySecrets bool

	AppsScriptURL     string
	AppsScriptEmail   string
	AppsScriptHash    string
	AppsScriptTimeout time.Duration

	AdminPassword string
	JWTSecret     string
	SessionTTL    time.Duration
	SecureCookies bool

	LocalStore        string
	ProductCacheStore string
	DatabaseDSN       string

	BulkEditWorkers int
	BulkEditStagger time.Duration

	TelegramToken    string
	TelegramChatID   int64
	TelegramThreadID int

	SheetsSpreadsheetID string
	SheetsCredentials   string
	SheetsRange         string

	LogLevel  string
	LogFormat string

	// GeneratedSecrets lists keys that were filled with temporary values.
	GeneratedSecrets []string
}

// parseChatTarget accepts "-1001234567890" or "-1001234567890/2" with an
// optional trailing "# comment".
func parseChatTarget(raw string) (int64, int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, nil
	}
	if idx := strings.Index(raw, "#"); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	parts := strings.Split(raw, "/")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("invalid format, expected -1001234567890 or -1001234567890/2")
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, err
	}

	threadID := 0
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		tid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid topic id: %v", err)
		}
		if tid < 0 {
			tid = -tid
		}
		threadID = tid
	}

	return chatID, threadID, nil
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
		AllowEmptySecrets: getEnvBool("ALLOW_EMPTY_SECRETS", false),

		AppsScriptURL:     strings.TrimSpace(os.Getenv("APPS_SCRIPT_URL")),
		AppsScriptEmail:   strings.TrimSpace(os.Getenv("APPS_SCRIPT_USER_EMAIL")),
		AppsScriptHash:    strings.TrimSpace(os.Getenv("APPS_SCRIPT_USER_HASH")),
		AppsScriptTimeout: time.Duration(getEnvInt("APPS_SCRIPT_TIMEOUT_SECONDS", constants.DefaultRemoteTimeoutSeconds)) * time.Second,

		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", constants.DefaultSessionTTLHours)) * time.Hour,
		SecureCookies: getEnvBool("COOKIE_SECURE", false),

		LocalStore:        strings.ToLower(getEnv("LOCAL_STORE", "memory")),
		ProductCacheStore: strings.ToLower(getEnv("PRODUCT_CACHE_STORE", "memory")),
		DatabaseDSN:       strings.TrimSpace(os.Getenv("DATABASE_URL")),

		BulkEditWorkers: getEnvInt("BULK_EDIT_WORKERS", constants.DefaultBulkEditWorkers),
		BulkEditStagger: time.Duration(getEnvInt("BULK_EDIT_STAGGER_MS", constants.DefaultBulkEditStaggerMS)) * time.Millisecond,

		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),

		SheetsSpreadsheetID: strings.TrimSpace(os.Getenv("SHEETS_SPREADSHEET_ID")),
		SheetsCredentials:   strings.TrimSpace(os.Getenv("SHEETS_CREDENTIALS_FILE")),
		SheetsRange:         getEnv("SHEETS_RANGE", "Products!A1"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = BuildPostgresDSNFromEnv()
	}

	if raw := os.Getenv("TELEGRAM_NOTIFY_CHAT"); raw != "" {
		chatID, threadID, err := parseChatTarget(raw)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_NOTIFY_CHAT has invalid format: %v", err)
		}
		cfg.TelegramChatID = chatID
		cfg.TelegramThreadID = threadID
	}

	if cfg.BulkEditWorkers <= 0 {
		cfg.BulkEditWorkers = constants.DefaultBulkEditWorkers
	}
	if cfg.BulkEditStagger < 0 {
		cfg.BulkEditStagger = 0
	}
	if cfg.AppsScriptTimeout <= 0 {
		cfg.AppsScriptTimeout = time.Duration(constants.DefaultRemoteTimeoutSeconds) * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Duration(constants.DefaultSessionTTLHours) * time.Hour
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LocalStore {
	case "memory", "postgres":
	default:
		return fmt.Errorf("LOCAL_STORE must be memory or postgres, got %q", c.LocalStore)
	}
	switch c.ProductCacheStore {
	case "memory", "postgres":
	default:
		return fmt.Errorf("PRODUCT_CACHE_STORE must be memory or postgres, got %q", c.ProductCacheStore)
	}
	if (c.LocalStore == "postgres" || c.ProductCacheStore == "postgres") && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_URL or POSTGRES_* environment variables are required for the postgres store")
	}
	if c.AppsScriptURL != "" {
		u, err := url.Parse(c.AppsScriptURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("APPS_SCRIPT_URL is not a valid URL: %q", c.AppsScriptURL)
		}
	}

	if c.AllowEmptySecrets {
		if strings.TrimSpace(c.AdminPassword) == "" {
			c.AdminPassword = generateTempSecret(16)
			c.GeneratedSecrets = append(c.GeneratedSecrets, "ADMIN_PASSWORD")
		}
		if strings.TrimSpace(c.JWTSecret) == "" {
			c.JWTSecret = generateTempSecret(32)
			c.GeneratedSecrets = append(c.GeneratedSecrets, "JWT_SECRET")
		}
		return nil
	}

	if c.AppsScriptURL == "" {
		return fmt.Errorf("APPS_SCRIPT_URL environment variable is empty")
	}
	if strings.TrimSpace(c.AdminPassword) == "" {
		return fmt.Errorf("ADMIN_PASSWORD environment variable is empty")
	}
	if len(strings.TrimSpace(c.JWTSecret)) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// BuildPostgresDSNFromEnv assembles a postgres URL from POSTGRES_* variables.
// It returns "" when host, user or database are missing.
func BuildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	password := os.Getenv("POSTGRES_PASSWORD")
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	sslmode := strings.TrimSpace(os.Getenv("POSTGRES_SSLMODE"))

	if host == "" || user == "" || db == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + strings.TrimPrefix(db, "/"),
	}
	if password == "" {
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, password)
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func generateTempSecret(byteLen int) string {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "change-me-change-me"
	}
	return hex.EncodeToString(buf)
}
