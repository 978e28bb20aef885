// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for eagle-tui.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLORS
// =============================================================================

// Gold - Brand accent, headers, the eagle.
var Gold = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// Navy - Secondary accent, user messages.
var Navy = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#60A5FA"}

// Emerald - Success states, premium badge.
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors and destructive actions.
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings and upgrade prompts.
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Text colors.
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// Surfaces and borders.
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}
var SelectionBg = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#3B3655"}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// Title renders the app name in the header.
	Title = lipgloss.NewStyle().Foreground(Gold).Bold(true)

	// UserLabel and AssistantLabel head each transcript entry.
	UserLabel      = lipgloss.NewStyle().Foreground(Navy).Bold(true)
	AssistantLabel = lipgloss.NewStyle().Foreground(Gold).Bold(true)

	// ToolTag marks messages sent through a non-general tool.
	ToolTag = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Timestamp renders per-message times when enabled.
	Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	// ErrorBanner is the dismissible inline error.
	ErrorBanner = lipgloss.NewStyle().
			Foreground(Rose).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Rose).
			Padding(0, 1)

	// UpgradeBanner is the quota upgrade prompt. Visually distinct from
	// generic errors: quota rejections never show as plain failures.
	UpgradeBanner = lipgloss.NewStyle().
			Foreground(Amber).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Amber).
			Padding(0, 1)

	// Sidebar styles.
	SidebarBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(Overlay)
	SidebarItem     = lipgloss.NewStyle().Foreground(TextSecondary)
	SidebarSelected = lipgloss.NewStyle().Foreground(TextPrimary).Background(SelectionBg).Bold(true)
	SidebarPin      = lipgloss.NewStyle().Foreground(Gold)

	// StatusBar runs along the bottom.
	StatusBar = lipgloss.NewStyle().Foreground(TextSecondary)

	// PremiumBadge and FreeBadge render the plan in the status bar.
	PremiumBadge = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	FreeBadge    = lipgloss.NewStyle().Foreground(TextMuted)

	// Spinner text while a send is in flight.
	Thinking = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// SourceRef renders citation indices under assistant answers.
	SourceRef = lipgloss.NewStyle().Foreground(TextMuted)
)

// =============================================================================
// THEME SELECTION
// =============================================================================

// ApplyTheme forces the background assumption for "dark" or "light";
// "auto" keeps termenv's detection.
func ApplyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}
