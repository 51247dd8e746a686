package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	pkgerrors "github.com/matzehuels/pkggraph/pkg/errors"
	"github.com/matzehuels/pkggraph/pkg/graph"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(12)
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

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// PrintError writes err to w, followed by its error code when the message
// does not already start with it.
func PrintError(w io.Writer, err error) {
	msg := pkgerrors.UserMessage(err)
	line := styleIconError.Render(iconError) + " " + msg
	if code := pkgerrors.GetCode(err); code != "" && !strings.HasPrefix(msg, string(code)) {
		line += " " + StyleDim.Render("("+string(code)+")")
	}
	fmt.Fprintln(w, line)
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Graph Output
// =============================================================================

// printPackage prints one package line: its id, plus name@version when that
// differs from the id.
func printPackage(w io.Writer, g *graph.PackageGraph, id graph.PackageID) {
	line := "  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(string(id))
	if m, ok := g.Package(id); ok && m.String() != string(id) {
		line += " " + StyleDim.Render(m.String())
	}
	fmt.Fprintln(w, line)
}

// printEdge prints one dependency edge with its attributes.
func printEdge(w io.Writer, e *graph.DependencyEdge) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(e.String()))
	if feats := e.Features(); len(feats) > 0 {
		printDetail(w, "features: %s", strings.Join(feats, ", "))
	}
}

// printStats prints graph statistics on a single line.
func printStats(w io.Writer, packages, edges int) {
	parts := []string{
		fmt.Sprintf("%d packages", packages),
		fmt.Sprintf("%d edges", edges),
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}
