// Package excel provides CLI commands for working with .xlsx files.
package excel

import "github.com/spf13/cobra"

// NewCommand returns the excel subcommand group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "excel",
		Short: "Rewrite and inspect fonts in Excel workbooks (.xlsx)",
		Long:  "Commands for a single Microsoft Excel .xlsx file — rewrite the font of every populated cell, or list the font each cell renders with.",
	}

	cmd.AddCommand(newFontCommand())
	cmd.AddCommand(newFontsCommand())

	return cmd
}
