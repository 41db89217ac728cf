package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Google Sheets mirror tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Fetch remote products and publish them to the mirror spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()
			if cfg.SheetsSpreadsheetID == "" {
				return errors.New("SHEETS_SPREADSHEET_ID is empty")
			}

			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.stores.Close()
			if a.mirror == nil {
				return errors.New("sheets mirror is not available")
			}

			products, err := a.catalog.Refresh(ctx)
			if err != nil {
				return err
			}
			if err := a.mirror.Publish(ctx, products); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Published %d products\n", len(products))
			return nil
		},
	})
	return cmd
}
