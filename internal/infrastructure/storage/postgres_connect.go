package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/yourusername/tile-inventory/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// postgres error codes
const (
	codeUndefinedDatabase = "3D000"
	codeDuplicateDatabase = "42P04"
)

// connectPolicy controls how long OpenPostgres waits for the server.
type connectPolicy struct {
	attempts int
	delay    time.Duration
}

func connectPolicyFromEnv() connectPolicy {
	p := connectPolicy{attempts: 20, delay: 2 * time.Second}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("POSTGRES_CONNECT_MAX_ATTEMPTS"))); err == nil && n > 0 {
		p.attempts = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("POSTGRES_CONNECT_RETRY_SECONDS"))); err == nil && n > 0 {
		p.delay = time.Duration(n) * time.Second
	}
	return p
}

// OpenPostgres opens a lib/pq pool, retrying while the server starts up and
// creating the database once when it does not exist yet.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	policy := connectPolicyFromEnv()
	triedCreate := false

	var lastErr error
	for attempt := 1; attempt <= policy.attempts; attempt++ {
		db, err := ping(ctx, dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err

		if !triedCreate && isUndefinedDatabase(err) {
			triedCreate = true
			if err := createDatabase(ctx, dsn); err != nil {
				lastErr = err
			} else {
				continue
			}
		}

		logger.Warnf("postgres connection attempt %d/%d failed: %v", attempt, policy.attempts, lastErr)
		if attempt == policy.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.delay):
		}
	}
	return nil, fmt.Errorf("postgres: %w", lastErr)
}

func ping(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenGorm wraps a pool opened by OpenPostgres in a gorm session.
func OpenGorm(ctx context.Context, dsn string) (*gorm.DB, error) {
	sqlDB, err := OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// createDatabase connects to the maintenance database and creates the one
// named in dsn.
func createDatabase(ctx context.Context, dsn string) error {
	adminDSN, name, err := maintenanceDSN(dsn)
	if err != nil {
		return err
	}
	db, err := ping(ctx, adminDSN)
	if err != nil {
		return fmt.Errorf("connect maintenance database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeDuplicateDatabase {
			return nil
		}
		return fmt.Errorf("create database %s: %w", name, err)
	}
	logger.Infof("🗄️ created database %s", name)
	return nil
}

// maintenanceDSN rewrites dsn to point at the "postgres" database and returns
// the original database name. Both URL and key=value forms are accepted.
func maintenanceDSN(dsn string) (string, string, error) {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", "", err
		}
		name := strings.TrimPrefix(u.Path, "/")
		if name == "" {
			return "", "", errors.New("dsn has no database name")
		}
		u.Path = "/postgres"
		return u.String(), name, nil
	}

	var name string
	fields := strings.Fields(dsn)
	for i, f := range fields {
		key, val, ok := strings.Cut(f, "=")
		if ok && (key == "dbname" || key == "database") {
			name = strings.Trim(val, `"'`)
			fields[i] = "dbname=postgres"
		}
	}
	if name == "" {
		return "", "", errors.New("dsn has no database name")
	}
	return strings.Join(fields, " "), name, nil
}

func isUndefinedDatabase(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUndefinedDatabase
}
