package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Tile inventory and CRM web app",
	Long: `Tile inventory and CRM web app.

Serves the brand, customer and product screens backed by the Apps Script
spreadsheet API, plus locally stored products and sales.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd(), backupCmd(), sheetsCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
