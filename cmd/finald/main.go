// Command finald runs the default backend.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "finald",
	Short:   "Default backend that answers unrouted requests with a 404",
	Long: `finald answers every request it has no route for with a 404 page in HTML or
plain text, following the Accept header. Reverse proxies can fetch the page for
any error status from /errors/{code}.

Configuration is read from FINALD_* and FINALHANDLER_* environment variables.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
