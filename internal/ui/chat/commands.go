// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/legaleagle/eagle-tui/internal/model"
)

// opTimeout bounds every background controller call so a hung request
// cannot leak a goroutine for the life of the program. Ask requests get
// the configured backend timeout instead.
const opTimeout = 30 * time.Second

// =============================================================================
// CONTROLLER COMMANDS
// =============================================================================

// Each command captures what it needs before the closure runs, calls the
// controller off the Update loop, and reports back with a typed message.

func (m Model) loadChatsCmd() tea.Cmd {
	ctrl, userID := m.chats, m.userID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return chatsLoadedMsg{err: ctrl.List(ctx, userID)}
	}
}

func (m Model) refreshStatusCmd() tea.Cmd {
	cache, userID := m.quota, m.userID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return statusRefreshedMsg{err: cache.Refresh(ctx, userID)}
	}
}

func (m Model) createChatCmd() tea.Cmd {
	ctrl, userID := m.chats, m.userID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		chat, err := ctrl.Create(ctx, userID, model.DefaultChatTitle)
		return chatCreatedMsg{chat: chat, err: err}
	}
}

func (m Model) selectChatCmd(chatID string) tea.Cmd {
	ctrl := m.chats
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return chatSelectedMsg{err: ctrl.Select(ctx, chatID)}
	}
}

func (m Model) renameChatCmd(chatID, title string) tea.Cmd {
	ctrl := m.chats
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return chatRenamedMsg{err: ctrl.Rename(ctx, chatID, title)}
	}
}

func (m Model) deleteChatCmd(chatID string) tea.Cmd {
	ctrl := m.chats
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return chatDeletedMsg{err: ctrl.Delete(ctx, chatID)}
	}
}

func (m Model) sendCmd(input, toolID string) tea.Cmd {
	conv, userID, timeout := m.conv, m.userID(), m.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sendFinishedMsg{err: conv.Send(ctx, userID, input, toolID)}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	conv, userID, timeout := m.conv, m.userID(), m.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		doc, err := conv.Upload(ctx, userID, path)
		return uploadFinishedMsg{doc: doc, err: err}
	}
}

func (m Model) createOrderCmd() tea.Cmd {
	pay, userID := m.payment, m.userID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		order, err := pay.CreateOrder(ctx, userID)
		return orderCreatedMsg{order: order, err: err}
	}
}
