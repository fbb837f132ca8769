// Command hospital-api serves the hospital management REST and gRPC APIs.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hospital-api",
		Short: "Hospital management API",
		Long: `hospital-api manages patients, healthcare professionals and appointments.

Configuration is read from the environment (and .env when present).
JWT_SECRET is required.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}
