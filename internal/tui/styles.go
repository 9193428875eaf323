package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base styles for voscribe TUI components
var (
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

const logoASCII = `
                          _ _
__   _____  ___  ___ _ __(_) |__   ___
\ \ / / _ \/ __|/ __| '__| | '_ \ / _ \
 \ V / (_) \__ \ (__| |  | | |_) |  __/
  \_/ \___/|___/\___|_|  |_|_.__/ \___|`

// Logo returns the voscribe ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
