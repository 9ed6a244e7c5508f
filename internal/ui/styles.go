package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette, chosen to stay readable on a dimmed night-mode terminal
var (
	ColorPrimary   = lipgloss.Color("#0EA5E9") // Sky
	ColorSecondary = lipgloss.Color("#14B8A6") // Teal
	ColorSuccess   = lipgloss.Color("#22C55E")
	ColorWarning   = lipgloss.Color("#F97316")
	ColorError     = lipgloss.Color("#F43F5E")
	ColorMuted     = lipgloss.Color("#64748B")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// FlagStyle marks flag and argument names in help text
	FlagStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	CodeStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Background(lipgloss.Color("#0F172A")).
			Padding(0, 1)
)

// StatusBoxStyle frames the status command output
var StatusBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.ThickBorder()).
	BorderForeground(ColorSecondary).
	Padding(0, 2)

// Device listing styles
var (
	DevicePathStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	DeviceNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB"))

	DeviceDetailStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	TouchTagStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// Switch state styles
var (
	SwitchOnStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	SwitchOffStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SwitchLockedStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// Title renders a styled title
func Title(text string) string {
	return TitleStyle.Render(text)
}

// Success renders success text with a checkmark
func Success(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

// Warning renders warning text
func Warning(text string) string {
	return WarningStyle.Render("⚠ " + text)
}

// Error renders error text
func Error(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// Muted renders muted/dimmed text
func Muted(text string) string {
	return MutedStyle.Render(text)
}

// Code renders inline code
func Code(text string) string {
	return CodeStyle.Render(text)
}

// Bold renders bold text
func Bold(text string) string {
	return BoldStyle.Render(text)
}

// SwitchState renders a switch value such as "on", "off" or "locked"
func SwitchState(state string) string {
	switch state {
	case "on":
		return SwitchOnStyle.Render(state)
	case "locked":
		return SwitchLockedStyle.Render(state)
	default:
		return SwitchOffStyle.Render(state)
	}
}
