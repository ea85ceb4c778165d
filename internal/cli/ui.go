package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pkgcheck/pkg/problem"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleBroken marks problems that make the repository uninstallable or
	// unbuildable as published.
	StyleBroken = lipgloss.NewStyle().Bold(true).Foreground(colorRed)

	// StyleStale marks problems that only need metadata cleanup.
	StyleStale = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints labelled counts on a single line, skipping zeros.
func printStats(w io.Writer, counts ...stat) {
	var parts []string
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", c.n, c.label)))
		}
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

type stat struct {
	n     int
	label string
}

// =============================================================================
// Problem Output
// =============================================================================

// broken lists the kinds rendered with StyleBroken; every other kind is
// rendered with StyleStale.
var broken = map[problem.Kind]bool{
	problem.MissingDependency:        true,
	problem.MissingRequiredByRenamed: true,
	problem.Cycle:                    true,
	problem.DuplicateDefinition:      true,
	problem.PublisherConflict:        true,
	problem.UnsatisfiedVersion:       true,
}

func kindStyle(k problem.Kind) lipgloss.Style {
	if broken[k] {
		return StyleBroken
	}
	return StyleStale
}

// printProblems renders problems grouped by kind in detector order,
// followed by a total.
func printProblems(w io.Writer, problems []problem.Problem) {
	if len(problems) == 0 {
		printSuccess(w, "No problems found")
		return
	}

	byKind := make(map[problem.Kind][]problem.Problem)
	for _, p := range problems {
		byKind[p.Kind] = append(byKind[p.Kind], p)
	}
	for _, k := range problem.Kinds {
		group := byKind[k]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintln(w, kindStyle(k).Render(fmt.Sprintf("%s (%d)", k, len(group))))
		printDetail(w, "%s", k.Description())
		for _, p := range group {
			fmt.Fprintln(w, "  "+formatProblem(p))
		}
		printNewline(w)
	}
	printWarning(w, "%d problems in %d kinds", len(problems), len(byKind))
}

// formatProblem renders "subject → related, ... (component)".
func formatProblem(p problem.Problem) string {
	var b strings.Builder
	b.WriteString(StyleValue.Render(p.Subject))
	if len(p.Related) > 0 {
		b.WriteString(" " + StyleDim.Render(iconArrow) + " ")
		b.WriteString(StyleHighlight.Render(strings.Join(p.Related, ", ")))
	}
	if p.Component != "" {
		b.WriteString(" " + StyleDim.Render("("+p.Component+")"))
	}
	return b.String()
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline(w io.Writer) {
	fmt.Fprintln(w)
}
