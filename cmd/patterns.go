package cmd

import (
	"fmt"

	"github.com/Beastly713/hexglitch/pkg/patterns"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	patternNameStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	patternInfoStyle = lipgloss.NewStyle().PaddingLeft(3).Foreground(lipgloss.Color("241"))
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the available glitch patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := patterns.Load(patternsFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available Hex Fuck Patterns:")
		for _, p := range catalog.All() {
			fmt.Fprintln(out, patternNameStyle.Render(p.Name))
			fmt.Fprintln(out, patternInfoStyle.Render(fmt.Sprintf("Size: %d bytes", len(p.Bytes))))
			if p.Description != "" {
				fmt.Fprintln(out, patternInfoStyle.Render("Effect: "+p.Description))
			}
		}
		fmt.Fprintf(out, "\nTotal patterns available: %d\n", len(catalog.All()))
		fmt.Fprintln(out, `Usage: hexglitch glitch input.avi output.avi --pattern <name|name1,name2|all>`)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
