package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexiusacademia/gravdam/internal/stability"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleSafe    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleUnsafe  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
)

const rule = "───────────────────────────────────────────────────────────────"

func printHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println(styleTitle.Render("     " + title))
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}

func printSection(title string) {
	fmt.Println(title + ":")
	fmt.Println(rule)
}

func printSuccess(format string, args ...any) {
	fmt.Println(styleSafe.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleWarning.Render(iconWarning) + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styleUnsafe.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// renderRating colours a rating; an empty rating renders as "n/a".
func renderRating(r stability.Rating) string {
	switch r {
	case stability.Safe:
		return styleSafe.Render(strings.ToUpper(string(r)))
	case stability.Marginal:
		return styleWarning.Render(strings.ToUpper(string(r)))
	case stability.Unsafe:
		return styleUnsafe.Render(strings.ToUpper(string(r)))
	}
	return styleDim.Render("n/a")
}
