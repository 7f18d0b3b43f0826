// ============================================================================
// mDS - DocScript Runtime
// ============================================================================
//
// Package:     console
// Description: Styles for the interactive DocScript console
// Author:      Mike Stoffels
// Created:     2025-08-20
// License:     MIT
// ============================================================================

package console

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
)

// Header and layout styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	InputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMuted).
				Padding(0, 1)
)

// Transcript styles
var (
	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	OutputStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	ErrorDetailStyle = lipgloss.NewStyle().
				Foreground(ColorError)

	PrivilegedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)
