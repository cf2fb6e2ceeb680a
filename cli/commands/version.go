package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/cypher-go/cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if versionFull {
			fmt.Println(version.Get().FullString())
			return
		}
		fmt.Println(version.Get().String())
	},
}

var versionFull bool

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "Include build metadata")

	rootCmd.AddCommand(versionCmd)
}
