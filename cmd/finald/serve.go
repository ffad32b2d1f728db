package main

import (
	"github.com/advdv/finalhandler/internal/backend"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		app := backend.NewApp()
		if err := app.Err(); err != nil {
			return err
		}

		app.Run()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
