// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/legaleagle/eagle-tui/internal/model"
	"github.com/legaleagle/eagle-tui/internal/ui/styles"
)

// RenderError renders the dismissible inline error banner.
func RenderError(message string, width int) string {
	if message == "" {
		return ""
	}
	return styles.ErrorBanner.Width(width - 2).Render(message + "  (esc to dismiss)")
}

// RenderUpgrade renders the quota upgrade prompt. Quota rejections
// always land here, never in the generic error banner.
func RenderUpgrade(message string, width int) string {
	if message == "" {
		return ""
	}
	return styles.UpgradeBanner.Width(width - 2).Render(message + "  (press u to upgrade, esc to dismiss)")
}

// RenderUsage renders the plan and remaining-quota summary for the
// status bar. With no snapshot yet it renders nothing.
func RenderUsage(status model.UsageStatus, ok bool) string {
	if !ok {
		return ""
	}
	if status.IsPremium {
		return styles.PremiumBadge.Render("Premium")
	}

	chats := fmt.Sprintf("%d", status.ChatCount)
	if status.ChatLimit != nil {
		chats = fmt.Sprintf("%d/%d", status.ChatCount, *status.ChatLimit)
	}
	docs := fmt.Sprintf("%d", status.DocumentCount)
	if status.DocumentLimit != nil {
		docs = fmt.Sprintf("%d/%d", status.DocumentCount, *status.DocumentLimit)
	}
	return styles.FreeBadge.Render(fmt.Sprintf(
		"Free · chats %s · docs %s · queries left %d",
		chats, docs, status.RemainingQueries))
}
