// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/legaleagle/eagle-tui/internal/api"
	"github.com/legaleagle/eagle-tui/internal/conversation"
	"github.com/legaleagle/eagle-tui/internal/quota"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.conv.Sending() || m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case chatsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.clampSidebar()
		m.refreshTranscript()
		return m, nil

	case statusRefreshedMsg:
		// A failed refresh keeps the previous snapshot; nothing to show.
		return m, nil

	case chatCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.sidebarIndex = 0
		m.refreshTranscript()
		return m, m.refreshStatusCmd()

	case chatSelectedMsg:
		m.loading = false
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.refreshTranscript()
		return m, nil

	case chatRenamedMsg:
		if msg.err != nil {
			m.fail(msg.err)
		}
		// The optimistic title is already in place either way.
		return m, nil

	case chatDeletedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.clampSidebar()
		m.refreshTranscript()
		return m, m.refreshStatusCmd()

	case sendFinishedMsg:
		if msg.err != nil && !errors.Is(msg.err, conversation.ErrSendInFlight) {
			m.fail(msg.err)
		}
		m.refreshTranscript()
		return m, nil

	case uploadFinishedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.refreshTranscript()
		return m, nil

	case orderCreatedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.upgradeText = ""
		m.errText = "Order " + msg.order.OrderID + " created. Complete checkout in your browser to upgrade."
		return m, nil
	}

	// Everything else (mouse wheel etc.) goes to the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// 'u' opens the upgrade flow while the upgrade banner is visible,
	// regardless of focus.
	if m.upgradeText != "" && key == "u" && m.focused != focusInput {
		return m, m.createOrderCmd()
	}

	switch m.focused {
	case focusFilter:
		return m.handleFilterKey(msg)
	case focusRename:
		return m.handleRenameKey(msg)
	case focusSidebar:
		return m.handleSidebarKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.errText != "" || m.upgradeText != "" {
			m.dismiss()
			return m, nil
		}
		m.focused = focusSidebar
		m.input.Blur()
		return m, nil

	case "tab":
		m.focused = focusSidebar
		m.input.Blur()
		return m, nil

	case "ctrl+t":
		m.cycleTool()
		return m, nil

	case "ctrl+n":
		m.loading = true
		return m, m.createChatCmd()

	case "ctrl+j":
		// Literal newline in the input.
		m.input.InsertString("\n")
		return m, nil

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input content, routing slash commands first.
func (m Model) submit() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	if strings.HasPrefix(content, "/") {
		return m.handleCommand(content)
	}

	m.dismiss()
	m.input.Reset()
	return m, tea.Batch(m.sendCmd(content, m.selectedTool().ID), m.spin.Tick)
}

// handleCommand processes slash commands typed into the input.
func (m Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	m.input.Reset()
	parts := strings.Fields(content)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	switch name {
	case "new":
		m.loading = true
		return m, m.createChatCmd()

	case "upload":
		if len(args) == 0 {
			m.errText = "Usage: /upload <path-to-pdf>"
			return m, nil
		}
		return m, tea.Batch(m.uploadCmd(strings.Join(args, " ")), m.spin.Tick)

	case "rename":
		active := m.chats.ActiveID()
		if active == "" {
			m.errText = "No chat selected"
			return m, nil
		}
		if len(args) == 0 {
			m.errText = "Usage: /rename <new title>"
			return m, nil
		}
		return m, m.renameChatCmd(active, strings.Join(args, " "))

	case "delete":
		active := m.chats.ActiveID()
		if active == "" {
			m.errText = "No chat selected"
			return m, nil
		}
		return m, m.deleteChatCmd(active)

	case "pin":
		active := m.chats.ActiveID()
		if active == "" {
			m.errText = "No chat selected"
			return m, nil
		}
		if err := m.chats.TogglePin(active); err != nil {
			m.fail(err)
		}
		return m, nil

	case "upgrade":
		return m, m.createOrderCmd()

	case "quit", "q":
		return m, tea.Quit

	default:
		m.errText = "Unknown command: /" + name
		return m, nil
	}
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtered := m.chats.Filtered()

	switch msg.String() {
	case "esc":
		if m.errText != "" || m.upgradeText != "" {
			m.dismiss()
			return m, nil
		}
		m.focused = focusInput
		return m, m.input.Focus()

	case "tab", "i":
		m.focused = focusInput
		return m, m.input.Focus()

	case "up", "k":
		m.sidebarIndex--
		m.clampSidebar()
		return m, nil

	case "down", "j":
		m.sidebarIndex++
		m.clampSidebar()
		return m, nil

	case "enter":
		if m.sidebarIndex < len(filtered) {
			m.loading = true
			return m, m.selectChatCmd(filtered[m.sidebarIndex].ID)
		}
		return m, nil

	case "n":
		m.loading = true
		return m, m.createChatCmd()

	case "d":
		if m.sidebarIndex < len(filtered) {
			return m, m.deleteChatCmd(filtered[m.sidebarIndex].ID)
		}
		return m, nil

	case "p":
		if m.sidebarIndex < len(filtered) {
			if err := m.chats.TogglePin(filtered[m.sidebarIndex].ID); err != nil {
				m.fail(err)
			}
			m.clampSidebar()
		}
		return m, nil

	case "r":
		if m.sidebarIndex < len(filtered) {
			m.renameInput.SetValue(filtered[m.sidebarIndex].Title)
			m.renameInput.CursorEnd()
			m.focused = focusRename
			return m, m.renameInput.Focus()
		}
		return m, nil

	case "/":
		m.focused = focusFilter
		return m, m.filterInput.Focus()

	case "q":
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterInput.Reset()
		m.chats.SetFilter("")
		m.filterInput.Blur()
		m.focused = focusSidebar
		m.clampSidebar()
		return m, nil

	case "enter":
		m.filterInput.Blur()
		m.focused = focusSidebar
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.chats.SetFilter(m.filterInput.Value())
	m.clampSidebar()
	return m, cmd
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.renameInput.Blur()
		m.focused = focusSidebar
		return m, nil

	case "enter":
		title := m.renameInput.Value()
		m.renameInput.Blur()
		m.focused = focusSidebar

		filtered := m.chats.Filtered()
		if m.sidebarIndex >= len(filtered) {
			return m, nil
		}
		return m, m.renameChatCmd(filtered[m.sidebarIndex].ID, title)
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

// =============================================================================
// ERROR ROUTING
// =============================================================================

// fail routes an error to the right banner. Quota rejections, whether
// caught by the local gate or returned by the backend, always surface
// as the upgrade prompt rather than a plain error.
func (m *Model) fail(err error) {
	if ue, ok := quota.AsUpgrade(err); ok {
		m.errText = ""
		m.upgradeText = ue.Message
		return
	}
	if errors.Is(err, api.ErrQuotaExceeded) {
		m.errText = ""
		m.upgradeText = err.Error()
		return
	}

	var ve *conversation.ValidationError
	if errors.As(err, &ve) {
		m.upgradeText = ""
		m.errText = ve.Message
		return
	}

	m.upgradeText = ""
	m.errText = err.Error()
}

// refreshTranscript re-renders the viewport from the conversation
// controller and scrolls to the newest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
