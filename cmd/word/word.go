// Package word provides CLI commands for working with .docx files.
package word

import "github.com/spf13/cobra"

// NewCommand returns the word subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Rewrite and inspect fonts in Word documents (.docx)",
		Long:  "Commands for a single Microsoft Word .docx file — rewrite the font of every run, or list the fonts each run declares.",
	}

	cmd.AddCommand(newFontCommand())
	cmd.AddCommand(newFontsCommand())

	return cmd
}
