package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Beastly713/hexglitch/pkg/glitch"
	"github.com/Beastly713/hexglitch/pkg/pipeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/table"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// WriteLog renders the glitch log as a table.
func WriteLog(w io.Writer, entries []glitch.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No hex fucks were applied.")
		return
	}

	fmt.Fprintf(w, "\nHex Fuck Log (%d entries):\n", len(entries))

	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	defer writer.Render()
	writer.AppendHeader(table.Row{"#", "Offset", "Size", "Chunk", "Pattern"})
	for i, e := range entries {
		writer.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("0x%08x", e.Offset),
			e.Size,
			fmt.Sprintf("0x%08x", e.ChunkOffset),
			e.PreviewHex(),
		})
	}
}

// Summary renders the outcome of a run.
func Summary(res *pipeline.Result, smear bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Hex fucking completed successfully!"))
	b.WriteString("\n")

	row := func(label string, value any) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)))
		b.WriteString(valueStyle.Render(fmt.Sprint(value)))
		b.WriteString("\n")
	}

	row("Input size", fmt.Sprintf("%d bytes", res.InputSize))
	row("Frame chunks", res.Chunks)
	row("Targeted frames", len(res.Selected))
	if smear {
		row("Stable patterns", res.SmearPatterns)
		row("Smears applied", res.Applied)
	} else {
		row("Hex fucks", res.Applied)
	}
	row("Seed", res.Seed)
	row("Input xxhash", fmt.Sprintf("%016x", res.InputDigest))
	row("Output xxhash", fmt.Sprintf("%016x", res.OutputDigest))

	return b.String()
}
