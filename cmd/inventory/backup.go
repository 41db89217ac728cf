package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yourusername/tile-inventory/internal/infrastructure/backup"
	"github.com/yourusername/tile-inventory/internal/usecase"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore local products and sales",
	}

	var format, out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write a backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackup(cmd.Context(), func(ctx context.Context, uc usecase.BackupUseCase) error {
				f, err := backup.ParseFormat(format)
				if err != nil {
					return err
				}
				file, err := uc.Export(ctx, f)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = file.Name
				} else if info, err := os.Stat(path); err == nil && info.IsDir() {
					path = filepath.Join(path, file.Name)
				}
				if err := os.WriteFile(path, file.Data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Backup written to %s\n", path)
				return nil
			})
		},
	}
	export.Flags().StringVar(&format, "format", "json", "json or xlsx")
	export.Flags().StringVar(&out, "out", "", "output file or directory")

	restore := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace local products and sales with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withBackup(cmd.Context(), func(ctx context.Context, uc usecase.BackupUseCase) error {
				stats, err := uc.Import(ctx, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Data restored successfully! %d products, %d sales\n", stats.Products, stats.Sales)
				return nil
			})
		},
	}

	cmd.AddCommand(export, restore)
	return cmd
}

func withBackup(ctx context.Context, fn func(context.Context, usecase.BackupUseCase) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if ctx == nil {
		ctx = context.Background()
	}
	stores, err := openLocalStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()
	return fn(ctx, usecase.NewBackupUseCase(stores.products, stores.sales))
}
