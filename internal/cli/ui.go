package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette shared by the command output helpers and the pan TUI. Kept
// deliberately small: the wall itself is the colorful part.
var (
	colorCyan   = lipgloss.Color("36")  // headings
	colorGreen  = lipgloss.Color("35")  // cache hits
	colorYellow = lipgloss.Color("220") // warnings in the pan status bar
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	// StyleTitle renders the pan TUI header and table headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim renders muted detail text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders user-facing values such as file paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning flags degraded states, e.g. serving without a store.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleOK       = lipgloss.NewStyle().Foreground(colorGreen)
	styleNote     = lipgloss.NewStyle().Foreground(colorGray)
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// printSuccess marks a completed operation.
func printSuccess(format string, args ...any) {
	fmt.Println(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// printInfo reports a status line.
func printInfo(format string, args ...any) {
	fmt.Println(styleNote.Render("›") + " " + fmt.Sprintf(format, args...))
}

// printDetail adds an indented muted line under the previous message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at a file the command just wrote.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printKeyValue prints an aligned label and value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarizes a packed layout: image count, row count, and
// whether the layout came from the cache or was computed fresh.
func printStats(imageCount, rowCount int, cached bool) {
	var parts []string
	if imageCount > 0 {
		parts = append(parts, fmt.Sprintf("%d images", imageCount))
	}
	if rowCount > 0 {
		parts = append(parts, fmt.Sprintf("%d rows", rowCount))
	}

	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}

	sep := StyleDim.Render(" · ")
	for i, part := range parts {
		parts[i] = StyleDim.Render(part)
	}
	fmt.Println("  " + strings.Join(parts, sep))
}
