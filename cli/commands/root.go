// Package commands implements the cypher-go CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/cypher-go/cli/internal/version"
	"github.com/satishbabariya/cypher-go/internal/debug"
)

var rootVerbose bool

var rootCmd = &cobra.Command{
	Use:   "cypher-go",
	Short: "Graph schema and migration tooling for cypher-go",
	Long: `cypher-go manages graph model definitions and keeps the database
schema (constraints and indexes) in sync with them.`,
	Version:       version.Get().String(),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootVerbose {
			debug.Init(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute is the main entry point for the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// getSchemaPath resolves the schema path from a positional argument or
// the flag/config default.
func getSchemaPath(flagValue string, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return flagValue
}
