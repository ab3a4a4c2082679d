package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden by the release build.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the trendbot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("trendbot", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
