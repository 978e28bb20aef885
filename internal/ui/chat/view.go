// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/legaleagle/eagle-tui/internal/model"
	"github.com/legaleagle/eagle-tui/internal/tools"
	"github.com/legaleagle/eagle-tui/internal/ui/components"
	"github.com/legaleagle/eagle-tui/internal/ui/styles"
)

// View renders the full screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sidebar := components.RenderSidebar(
		m.chats.Filtered(), m.chats.ActiveID(), m.filterInput.Value(),
		sidebarWidth, m.height-2)

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderBanners(),
		m.renderInput(),
		m.renderStatusBar(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, right)
}

func (m Model) renderHeader() string {
	title := "LegalEagle"
	if active := m.chats.Active(); active != nil {
		title = active.Title
	}
	tool := ""
	if t := m.selectedTool(); t.ID != tools.General {
		tool = "  " + styles.ToolTag.Render("["+t.Name+"]")
	}
	return styles.Title.Render(title) + tool
}

func (m Model) renderBanners() string {
	if m.upgradeText != "" {
		return components.RenderUpgrade(m.upgradeText, m.transcriptWidth())
	}
	if m.errText != "" {
		return components.RenderError(m.errText, m.transcriptWidth())
	}
	return ""
}

func (m Model) renderInput() string {
	switch m.focused {
	case focusRename:
		return m.renameInput.View()
	case focusFilter:
		return m.filterInput.View()
	}
	return m.input.View()
}

func (m Model) renderStatusBar() string {
	status, ok := m.quota.Snapshot()
	usage := components.RenderUsage(status, ok)

	left := styles.StatusBar.Render(m.session.Current().DisplayName)
	if m.conv.Sending() {
		left = m.spin.View() + styles.Thinking.Render(" thinking...")
	} else if m.loading {
		left = m.spin.View() + styles.Thinking.Render(" loading...")
	}

	help := styles.StatusBar.Render("tab: sidebar · ctrl+t: tool · ctrl+n: new · ctrl+c: quit")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", usage, "  ", help)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the active chat's messages and documents.
func (m Model) renderTranscript() string {
	chat := m.conv.Chat()
	if chat == nil {
		return styles.Thinking.Render("\n  Select a chat or press ctrl+n to start a new one.")
	}

	var b strings.Builder

	if docs := m.conv.Documents(); len(docs) > 0 {
		for _, d := range docs {
			b.WriteString(styles.SourceRef.Render(
				fmt.Sprintf("📄 %s (%d chunks)", d.Filename, d.NumChunks)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for _, msg := range m.conv.Messages() {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMessage(msg *model.Message) string {
	var b strings.Builder

	label := styles.AssistantLabel.Render(msg.Role.DisplayName())
	if msg.Role == model.RoleUser {
		label = styles.UserLabel.Render(msg.Role.DisplayName())
	}
	b.WriteString(label)
	if msg.Tool != "" {
		b.WriteString(" " + styles.ToolTag.Render("("+msg.Tool+")"))
	}
	if m.cfg.UI.ShowTimestamps && !msg.CreatedAt.IsZero() {
		b.WriteString(" " + styles.Timestamp.Render(msg.CreatedAt.Format("15:04")))
	}
	if msg.Pending {
		b.WriteString(" " + styles.Thinking.Render("(sending)"))
	}
	b.WriteString("\n")

	b.WriteString(m.renderContent(msg))

	if len(msg.Sources) > 0 {
		refs := make([]string, len(msg.Sources))
		for i, s := range msg.Sources {
			refs[i] = fmt.Sprintf("[%d]", s)
		}
		b.WriteString(styles.SourceRef.Render("sources: " + strings.Join(refs, " ")))
		b.WriteString("\n")
	}
	return b.String()
}

// renderContent renders assistant answers through the markdown renderer;
// user messages and render failures fall back to plain text.
func (m Model) renderContent(msg *model.Message) string {
	if msg.Role == model.RoleAssistant && m.markdown != nil {
		if out, err := m.markdown.Render(msg.Content); err == nil {
			return out
		}
	}
	return lipgloss.NewStyle().Width(m.transcriptWidth()).Render(msg.Content) + "\n"
}
