package main

import (
	"github.com/advdv/finalhandler/internal/backend"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check the health endpoint of a running server",
	Long: `Check the health endpoint of the server listening on FINALD_PORT and exit
non-zero when it does not answer 200. Meant for container health checks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := backend.ParseEnv()
		if err != nil {
			return err
		}

		rt := backend.NewHTTPTransport(noop.NewTracerProvider(), backend.NewPropagator())
		return backend.CheckHealth(cmd.Context(), env, rt)
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
