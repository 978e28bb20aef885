// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main TUI view: sidebar, transcript, input
// and status bar. All chat state lives in the controllers; this model
// only holds presentation state and re-reads the controllers on every
// render.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/legaleagle/eagle-tui/internal/chats"
	"github.com/legaleagle/eagle-tui/internal/config"
	"github.com/legaleagle/eagle-tui/internal/conversation"
	"github.com/legaleagle/eagle-tui/internal/payment"
	"github.com/legaleagle/eagle-tui/internal/quota"
	"github.com/legaleagle/eagle-tui/internal/session"
	"github.com/legaleagle/eagle-tui/internal/tools"
	"github.com/legaleagle/eagle-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// focus identifies which pane receives key input.
type focus int

const (
	focusInput focus = iota
	focusSidebar
	focusFilter
	focusRename
)

const sidebarWidth = 32

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the main view.
type Model struct {
	cfg *config.Config

	chats   *chats.Controller
	conv    *conversation.Controller
	quota   *quota.Cache
	payment *payment.Controller
	session *session.Store

	// UI components.
	input       textarea.Model
	filterInput textinput.Model
	renameInput textinput.Model
	viewport    viewport.Model
	spin        spinner.Model
	markdown    *glamour.TermRenderer

	// Layout.
	width  int
	height int
	ready  bool

	// Interaction state.
	focused      focus
	sidebarIndex int
	toolIndex    int

	// Banner state. errText and upgradeText are mutually exclusive:
	// quota rejections always route to the upgrade banner.
	errText     string
	upgradeText string

	loading bool
}

// New creates the main view model wired to the controllers.
func New(cfg *config.Config, chatCtrl *chats.Controller, conv *conversation.Controller,
	cache *quota.Cache, pay *payment.Controller, sess *session.Store) Model {

	styles.ApplyTheme(cfg.UI.Theme)

	ta := textarea.New()
	ta.Placeholder = "Ask a question about your document..."
	ta.SetHeight(3)
	ta.CharLimit = 4096
	ta.ShowLineNumbers = false
	ta.Focus()

	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "filter chats"
	fi.CharLimit = 128

	ri := textinput.New()
	ri.Prompt = "rename: "
	ri.CharLimit = 256

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Thinking

	// Markdown rendering is best effort; a nil renderer falls back to
	// plain text in the view.
	md, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		md = nil
	}

	return Model{
		cfg:         cfg,
		chats:       chatCtrl,
		conv:        conv,
		quota:       cache,
		payment:     pay,
		session:     sess,
		input:       ta,
		filterInput: fi,
		renameInput: ri,
		viewport:    vp,
		spin:        sp,
		markdown:    md,
		focused:     focusInput,
	}
}

// Init loads the chat list and usage snapshot on startup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadChatsCmd(),
		m.refreshStatusCmd(),
		textarea.Blink,
		m.spin.Tick,
	)
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) userID() string {
	return m.session.UserID()
}

// transcriptWidth is the width available to the right-hand pane.
func (m *Model) transcriptWidth() int {
	w := m.width - sidebarWidth - 3
	if w < 20 {
		w = 20
	}
	return w
}

// layout recomputes component dimensions after a resize.
func (m *Model) layout() {
	// Header, input area, status bar and banners share the column with
	// the viewport.
	const reserved = 9
	vh := m.height - reserved
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = m.transcriptWidth()
	m.viewport.Height = vh
	m.input.SetWidth(m.transcriptWidth() - 2)
	m.ready = true
}

// selectedTool returns the tool the picker currently points at.
func (m *Model) selectedTool() tools.Tool {
	all := tools.All()
	if m.toolIndex < 0 || m.toolIndex >= len(all) {
		return all[0]
	}
	return all[m.toolIndex]
}

// cycleTool advances the tool picker.
func (m *Model) cycleTool() {
	m.toolIndex = (m.toolIndex + 1) % len(tools.All())
}

// dismiss clears both banners.
func (m *Model) dismiss() {
	m.errText = ""
	m.upgradeText = ""
}

// clampSidebar keeps the sidebar cursor inside the filtered list.
func (m *Model) clampSidebar() {
	n := len(m.chats.Filtered())
	if n == 0 {
		m.sidebarIndex = 0
		return
	}
	if m.sidebarIndex >= n {
		m.sidebarIndex = n - 1
	}
	if m.sidebarIndex < 0 {
		m.sidebarIndex = 0
	}
}
