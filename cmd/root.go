// Package cmd contains all CLI commands for the fontkit binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/fontkit/cmd/completion"
	cmdconfig "github.com/klytics/fontkit/cmd/config"
	"github.com/klytics/fontkit/cmd/doctor"
	"github.com/klytics/fontkit/cmd/excel"
	"github.com/klytics/fontkit/cmd/journal"
	"github.com/klytics/fontkit/cmd/run"
	"github.com/klytics/fontkit/cmd/scan"
	"github.com/klytics/fontkit/cmd/version"
	cmdwatch "github.com/klytics/fontkit/cmd/watch"
	"github.com/klytics/fontkit/cmd/word"
	"github.com/klytics/fontkit/internal/logger"
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
// Without a subcommand it runs one batch over the input directory.
func NewRootCommand() *cobra.Command {
	var (
		jsonOutput bool
		verbose    bool
		noColor    bool
		cfgFile    string
	)

	rootCmd := &cobra.Command{
		Use:   "fontkit",
		Short: "Rewrite the font of every .docx and .xlsx file in a directory",
		Long: `fontkit — uniform fonts for Word and Excel documents.

Reads every .docx and .xlsx file in the input directory, sets one font
family and size on every Word text run and every populated Excel cell,
and writes the copies to the output directory. Originals are untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
			if verbose {
				logger.SetVerbose(true)
			}
			if jsonOutput {
				os.Setenv("FONTKIT_JSON", "true")
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.fontkit/config.yaml)")

	run.Attach(rootCmd)

	// Register subcommands
	rootCmd.AddCommand(run.NewCommand())
	rootCmd.AddCommand(scan.NewCommand())
	rootCmd.AddCommand(word.NewCommand())
	rootCmd.AddCommand(excel.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(journal.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
