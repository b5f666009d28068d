package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gravdam/internal/version"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gravdam",
	Short: "Gravity dam stability analysis tool",
	Long: `gravdam - Gravity Dam Stability Analyzer

A CLI tool for checking a single gravity dam cross-section against
sliding and overturning under hydrostatic loading.

This tool helps engineers:
  - Derive self weight, uplift, water pressure and their moments
  - Rate the sliding and overturning safety factors
  - Check whether the resultant falls within the middle third
  - Back-calculate the water level, base width or friction coefficient
    that gives a target safety factor
  - Run whole workbooks of cases or serve the analysis over HTTP

Sections may be rectangular, triangular or trapezoidal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger := newLogger(os.Stderr, level)
		cmd.SetContext(withLogger(cmd.Context(), logger))
		return initConfig(logger)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gravdam v%-47s║\n", version.Version)
		fmt.Println("  ║   Gravity Dam Stability Analyzer                          ║")
		fmt.Printf("  ║   %-56s║\n", version.Author+" ©  "+version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Checks a gravity dam section against sliding and overturning.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Rectangular, triangular and trapezoidal profiles")
		fmt.Println("    • Hydrostatic pressure and linear uplift")
		fmt.Println("    • Solve for water level, base width or friction coefficient")
		fmt.Println("    • ASCII, PNG/SVG/PDF diagrams and PDF calculation sheets")
		fmt.Println("    • Excel batch runs and an HTTP JSON API")
		fmt.Println()
		fmt.Println("  Use 'gravdam --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./gravdam.yaml or ~/.config/gravdam/gravdam.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
