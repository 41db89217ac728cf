package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/internal/infrastructure/backup"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// BackupFile is an encoded export ready for download.
type BackupFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImportStats reports what a restore replaced.
type ImportStats struct {
	Products         int
	Sales            int
	ProductsReplaced bool
	SalesReplaced    bool
}

// BackupUseCase lokal ma'lumotlarni eksport/import qilish
type BackupUseCase interface {
	Export(ctx context.Context, format backup.Format) (BackupFile, error)
	Import(ctx context.Context, data []byte) (ImportStats, error)
}

type backupUseCase struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	now      func() time.Time
}

// NewBackupUseCase yangi BackupUseCase yaratish
func NewBackupUseCase(products repository.ProductRepository, sales repository.SaleRepository) BackupUseCase {
	return &backupUseCase{products: products, sales: sales, now: time.Now}
}

func (u *backupUseCase) Export(ctx context.Context, format backup.Format) (BackupFile, error) {
	products, err := u.products.List(ctx)
	if err != nil {
		return BackupFile{}, fmt.Errorf("export products: %w", err)
	}
	sales, err := u.sales.List(ctx)
	if err != nil {
		return BackupFile{}, fmt.Errorf("export sales: %w", err)
	}

	now := u.now().UTC()
	data, err := backup.Encode(format, backup.Snapshot{Products: products, Sales: sales, ExportDate: now})
	if err != nil {
		return BackupFile{}, fmt.Errorf("encode backup: %w", err)
	}
	logger.Infof("📤 Backup exported: %d products, %d sales (%s)", len(products), len(sales), format)
	return BackupFile{
		Name:        backup.FileName(format, now),
		ContentType: backup.ContentType(format),
		Data:        data,
	}, nil
}

// Import replaces products and/or sales with the parts present in data.
func (u *backupUseCase) Import(ctx context.Context, data []byte) (ImportStats, error) {
	snap, err := backup.Decode(data)
	if err != nil {
		return ImportStats{}, err
	}

	var stats ImportStats
	if snap.HasProducts {
		if err := u.products.ReplaceAll(ctx, snap.Products); err != nil {
			return stats, fmt.Errorf("restore products: %w", err)
		}
		stats.Products = len(snap.Products)
		stats.ProductsReplaced = true
	}
	if snap.HasSales {
		if err := u.sales.ReplaceAll(ctx, snap.Sales); err != nil {
			return stats, fmt.Errorf("restore sales: %w", err)
		}
		stats.Sales = len(snap.Sales)
		stats.SalesReplaced = true
	}
	logger.Infof("📥 Backup restored: %d products, %d sales", stats.Products, stats.Sales)
	return stats, nil
}
