package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gravdam/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gravdam",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
		fmt.Println("Gravity Dam Stability Analyzer")
		fmt.Println("Sliding and overturning checks for a single cross-section")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
