package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yourusername/tile-inventory/config"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/internal/infrastructure/appsscript"
	"github.com/yourusername/tile-inventory/internal/infrastructure/gsheets"
	"github.com/yourusername/tile-inventory/internal/infrastructure/notify"
	"github.com/yourusername/tile-inventory/internal/infrastructure/storage"
	"github.com/yourusername/tile-inventory/internal/usecase"
	"github.com/yourusername/tile-inventory/pkg/logger"
	"gorm.io/gorm"
)

// localStores are the repositories for locally kept products and sales.
type localStores struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	cache    repository.ProductCache
	closers  []func() error
}

func (s *localStores) Close() {
	for _, c := range s.closers {
		_ = c()
	}
}

// loadConfig reads the configuration and starts the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("konfiguratsiya yuklanmadi: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openLocalStores(ctx context.Context, cfg *config.Config) (*localStores, error) {
	stores := &localStores{}

	var gdb *gorm.DB
	if cfg.LocalStore == "postgres" {
		db, err := storage.OpenGorm(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := storage.MigrateLocal(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		gdb = db
		if sqlDB, err := db.DB(); err == nil {
			stores.closers = append(stores.closers, sqlDB.Close)
		}
		stores.products = storage.NewGormProductRepository(db)
		stores.sales = storage.NewGormSaleRepository(db)
		logger.Infof("✅ Local products and sales: postgres (gorm)")
	} else {
		stores.products = storage.NewMemoryProductRepository()
		stores.sales = storage.NewMemorySaleRepository()
		logger.Infof("✅ Local products and sales: in-memory")
	}

	if cfg.ProductCacheStore == "postgres" {
		var sqlDB *sql.DB
		var err error
		if gdb != nil {
			sqlDB, err = gdb.DB()
		} else {
			sqlDB, err = storage.OpenPostgres(ctx, cfg.DatabaseDSN)
			if err == nil {
				stores.closers = append(stores.closers, sqlDB.Close)
			}
		}
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("postgres cache: %w", err)
		}
		cache, err := storage.NewPostgresProductCache(ctx, sqlDB)
		if err != nil {
			stores.Close()
			return nil, err
		}
		stores.cache = cache
		logger.Infof("✅ Product cache: postgres")
	} else {
		stores.cache = storage.NewMemoryProductCache()
		logger.Infof("✅ Product cache: in-memory")
	}
	return stores, nil
}

func newRemote(cfg *config.Config) (*appsscript.Client, error) {
	return appsscript.NewClient(appsscript.Config{
		BaseURL: cfg.AppsScriptURL,
		Email:   cfg.AppsScriptEmail,
		Hash:    cfg.AppsScriptHash,
		Timeout: cfg.AppsScriptTimeout,
	}, nil)
}

// newNotifier returns nil when no chat is configured.
func newNotifier(cfg *config.Config) repository.Notifier {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		return nil
	}
	n, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.TelegramThreadID)
	if err != nil {
		logger.Warnf("⚠️ Telegram notifier disabled: %v", err)
		return nil
	}
	logger.Infof("✅ Telegram notifier ready (chat %d)", cfg.TelegramChatID)
	return n
}

// newMirror returns nil when no spreadsheet is configured.
func newMirror(ctx context.Context, cfg *config.Config) repository.CatalogMirror {
	if cfg.SheetsSpreadsheetID == "" {
		return nil
	}
	m, err := gsheets.NewMirror(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentials, cfg.SheetsRange)
	if err != nil {
		logger.Warnf("⚠️ Sheets mirror disabled: %v", err)
		return nil
	}
	logger.Infof("✅ Sheets mirror ready (%s)", cfg.SheetsRange)
	return m
}

// app holds every use case the server drives.
type app struct {
	stores    *localStores
	mirror    repository.CatalogMirror
	brands    usecase.BrandUseCase
	customers usecase.CustomerUseCase
	catalog   usecase.CatalogUseCase
	bulkEdit  usecase.BulkEditUseCase
	products  usecase.ProductUseCase
	sales     usecase.SalesUseCase
	backup    usecase.BackupUseCase
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	stores, err := openLocalStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	remote, err := newRemote(cfg)
	if err != nil {
		stores.Close()
		return nil, err
	}
	logger.Infof("✅ Apps Script client ready")

	mirror := newMirror(ctx, cfg)
	catalog := usecase.NewCatalogUseCase(remote, stores.cache)
	return &app{
		stores:    stores,
		mirror:    mirror,
		brands:    usecase.NewBrandUseCase(remote),
		customers: usecase.NewCustomerUseCase(remote),
		catalog:   catalog,
		bulkEdit: usecase.NewBulkEditUseCase(remote, catalog, newNotifier(cfg), mirror, usecase.BulkEditOptions{
			Workers: cfg.BulkEditWorkers,
			Stagger: cfg.BulkEditStagger,
		}),
		products: usecase.NewProductUseCase(stores.products),
		sales:    usecase.NewSalesUseCase(stores.products, stores.sales),
		backup:   usecase.NewBackupUseCase(stores.products, stores.sales),
	}, nil
}

func withTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}
