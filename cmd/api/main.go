package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "bookstore-api",
	Short: "Bookstore catalog and shopping cart API",
	Long: `bookstore-api serves the category, book and shopping cart endpoints.

Configuration is read from the environment; --env-file loads a .env file first.
Running without a subcommand is the same as "serve".`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			_ = godotenv.Load(envFile)
			return
		}
		_ = godotenv.Load()
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env when present)")
	rootCmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply the schema before serving (postgres store only)")
	serveCmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply the schema before serving (postgres store only)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
