package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	mbio "github.com/matzehuels/mergebase/pkg/io"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, leaves
	colorYellow = lipgloss.Color("220") // Amber - warnings, the LCA
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - SPCAs
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	classStyles = map[string]lipgloss.Style{
		"lca":  lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		"spca": lipgloss.NewStyle().Foreground(colorBlue),
		"leaf": lipgloss.NewStyle().Foreground(colorGreen),
	}
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints computation statistics on a single line.
func printStats(w io.Writer, visited, significant int, cached bool) {
	var parts []string
	if visited > 0 {
		parts = append(parts, fmt.Sprintf("%d visited", visited))
	}
	parts = append(parts, fmt.Sprintf("%d significant", significant))

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	b.WriteString(StyleDim.Render(" · ") + statusStyle.Render(status))
	fmt.Fprintln(w, b.String())
}

// =============================================================================
// Reports
// =============================================================================

// printReport renders a computed result as a summary and a table of
// significant nodes, shallowest first.
func printReport(w io.Writer, r *mbio.Report, withLeaves bool) {
	printKeyValue(w, "LCA", classStyles["lca"].Render(r.LCA))
	printKeyValue(w, "SPCAs", joinOrDash(r.SPCAs))
	printKeyValue(w, "Leaves", joinOrDash(r.Leaves))
	fmt.Fprintln(w)

	var rows [][]string
	for _, n := range r.Nodes {
		if n.Class == "leaf" && !withLeaves {
			continue
		}
		rows = append(rows, []string{
			n.ID,
			n.Class,
			fmt.Sprint(n.Generation),
			joinOrDash(n.Immediate),
			joinOrDash(n.Leaves),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Class", "Gen", "Immediate", "Leaves").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 1 && row < len(rows) {
				if s, ok := classStyles[rows[row][1]]; ok {
					return s
				}
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
