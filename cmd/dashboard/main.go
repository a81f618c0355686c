package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// configDir is where the .env file is looked up.
	configDir string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Shipment dashboard for the shipments REST API",
	Long: `dashboard serves a session-aware shipment dashboard in front of the
shipments REST API.

Available subcommands:
  serve   - Run the web dashboard
  console - Browse shipments with live filters in the terminal
  export  - Render the shipment page of a running dashboard to PDF or PNG`,
	SilenceUsage: true,
}

// @title Shipment Dashboard API
// @version 1.0
// @description Session-aware dashboard over the shipments REST API.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing the .env file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
