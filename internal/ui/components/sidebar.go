// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable view fragments for the chat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/legaleagle/eagle-tui/internal/model"
	"github.com/legaleagle/eagle-tui/internal/ui/styles"
)

const pinMarker = "📌 "

// RenderSidebar renders the chat list column. Chats arrive already in
// display order (pinned first, then most recent activity).
func RenderSidebar(chats []*model.Chat, activeID, filter string, width, height int) string {
	if width <= 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(fitWidth("Chats", width)))
	b.WriteString("\n")
	if filter != "" {
		b.WriteString(styles.SidebarItem.Render(fitWidth("/"+filter, width)))
		b.WriteString("\n")
	}

	rows := height - 2
	for i, chat := range chats {
		if i >= rows {
			break
		}
		label := chat.Title
		if chat.IsPinned {
			label = pinMarker + label
		}
		if chat.HasDocument {
			label += " *"
		}
		line := fitWidth(label, width)
		if chat.ID == activeID {
			b.WriteString(styles.SidebarSelected.Render(line))
		} else {
			b.WriteString(styles.SidebarItem.Render(line))
		}
		b.WriteString("\n")
	}

	if len(chats) == 0 {
		b.WriteString(styles.SidebarItem.Render(fitWidth("No chats yet", width)))
		b.WriteString("\n")
	}

	return styles.SidebarBorder.Render(
		lipgloss.NewStyle().Width(width).Height(height).Render(b.String()))
}

// fitWidth truncates a label to the column width by display cells, not
// bytes, so wide runes in titles cannot break the layout.
func fitWidth(s string, width int) string {
	return runewidth.Truncate(strings.ReplaceAll(s, "\n", " "), width, "…")
}
