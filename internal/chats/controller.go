// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chats maintains the ordered chat list and mediates
// create/select/rename/delete against the backend.
//
// The backend owns chat identity and persistence; this controller holds
// a read-through cache replaced by explicit fetches. The only local-only
// state is the pin flag and the sidebar filter.
package chats

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/legaleagle/eagle-tui/internal/api"
	"github.com/legaleagle/eagle-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoSuchChat indicates the chat id is not in the local list.
	ErrNoSuchChat = errors.New("no such chat")
	// ErrEmptyTitle indicates a rename to a blank title.
	ErrEmptyTitle = errors.New("title cannot be empty")
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// backend is the slice of the API client the controller needs.
type backend interface {
	CreateChat(ctx context.Context, userID, title, promptTemplate string) (*model.Chat, error)
	ListChats(ctx context.Context, userID string, limit int) ([]*model.Chat, error)
	GetChatHistory(ctx context.Context, chatID string) (*model.Chat, []*model.Message, error)
	UpdateChat(ctx context.Context, chatID string, update api.ChatUpdate) (*model.Chat, error)
	DeleteChat(ctx context.Context, chatID string) error
	ListDocuments(ctx context.Context, chatID string) ([]*model.Document, error)
}

// createGate blocks chat creation when the free-plan limit is reached.
type createGate interface {
	CheckCreateChat() error
}

// Transcript receives the active chat's content when the selection
// changes. Implemented by the conversation controller.
type Transcript interface {
	// Activate replaces all transcript state with the given chat's.
	Activate(chat *model.Chat, messages []*model.Message, docs []*model.Document)
	// Deactivate clears the transcript to the empty state.
	Deactivate()
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the chat list and the active selection.
type Controller struct {
	mu         sync.Mutex
	api        backend
	gate       createGate
	transcript Transcript

	chats    []*model.Chat
	activeID string
	filter   string
}

// NewController returns an empty controller.
func NewController(apiClient backend, gate createGate, transcript Transcript) *Controller {
	return &Controller{
		api:        apiClient,
		gate:       gate,
		transcript: transcript,
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Chats returns the chat list in display order: pinned first, then by
// most recent activity.
func (c *Controller) Chats() []*model.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*model.Chat(nil), c.chats...)
}

// Filtered returns the display-ordered chats matching the sidebar filter.
func (c *Controller) Filtered() []*model.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*model.Chat, 0, len(c.chats))
	for _, chat := range c.chats {
		if chat.MatchesFilter(c.filter) {
			out = append(out, chat)
		}
	}
	return out
}

// SetFilter updates the sidebar search filter.
func (c *Controller) SetFilter(query string) {
	c.mu.Lock()
	c.filter = query
	c.mu.Unlock()
}

// ActiveID returns the active chat id, or empty when nothing is selected.
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Active returns the active chat, or nil.
func (c *Controller) Active() *model.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(c.activeID)
}

// findLocked returns the chat with the given id. Callers hold mu.
func (c *Controller) findLocked(chatID string) *model.Chat {
	for _, chat := range c.chats {
		if chat.ID == chatID {
			return chat
		}
	}
	return nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// List fetches the user's chats and replaces the local list wholesale.
// Pins are client-only and do not survive the replace.
func (c *Controller) List(ctx context.Context, userID string) error {
	fetched, err := c.api.ListChats(ctx, userID, 0)
	if err != nil {
		return fmt.Errorf("failed to load chats: %w", err)
	}
	model.SortChats(fetched)

	c.mu.Lock()
	c.chats = fetched
	if c.activeID != "" && c.findLocked(c.activeID) == nil {
		// The active chat vanished server-side.
		c.activeID = ""
		c.mu.Unlock()
		c.transcript.Deactivate()
		return nil
	}
	c.mu.Unlock()
	return nil
}

// Create makes a new chat, prepends it and makes it active with an
// empty transcript. The quota gate runs before any network call.
func (c *Controller) Create(ctx context.Context, userID, title string) (*model.Chat, error) {
	if err := c.gate.CheckCreateChat(); err != nil {
		return nil, err
	}

	chat, err := c.api.CreateChat(ctx, userID, title, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	c.mu.Lock()
	c.chats = append([]*model.Chat{chat}, c.chats...)
	c.activeID = chat.ID
	c.mu.Unlock()

	c.transcript.Activate(chat, nil, nil)
	return chat, nil
}

// Select makes chatID active, fetching its history and documents and
// replacing all transcript state. Selecting the active chat is a no-op.
// On fetch failure the previous selection stays.
func (c *Controller) Select(ctx context.Context, chatID string) error {
	c.mu.Lock()
	if chatID == c.activeID {
		c.mu.Unlock()
		return nil
	}
	if c.findLocked(chatID) == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoSuchChat, chatID)
	}
	c.mu.Unlock()

	return c.activate(ctx, chatID)
}

// activate loads a chat's content and makes it the selection.
func (c *Controller) activate(ctx context.Context, chatID string) error {
	chat, messages, err := c.api.GetChatHistory(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to load chat history: %w", err)
	}
	docs, err := c.api.ListDocuments(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to load chat documents: %w", err)
	}

	c.mu.Lock()
	local := c.findLocked(chatID)
	if local == nil {
		// Deleted while the fetch was in flight. Stale update, drop it.
		c.mu.Unlock()
		return nil
	}
	// Keep the local entry (pin flag included) but fold in the fresh
	// backend fields.
	local.Title = chat.Title
	local.PromptTemplate = chat.PromptTemplate
	local.UpdatedAt = chat.UpdatedAt
	local.HasDocument = len(docs) > 0
	c.activeID = chatID
	c.mu.Unlock()

	c.transcript.Activate(local, messages, docs)
	return nil
}

// Rename updates a chat title optimistically, then confirms with the
// backend. On backend failure the optimistic title is retained and the
// error surfaced; the next list reload reconciles.
func (c *Controller) Rename(ctx context.Context, chatID, newTitle string) error {
	title := strings.TrimSpace(newTitle)
	if title == "" {
		return ErrEmptyTitle
	}

	c.mu.Lock()
	chat := c.findLocked(chatID)
	if chat == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoSuchChat, chatID)
	}
	previous := chat.Title
	chat.Title = title
	c.mu.Unlock()

	updated, err := c.api.UpdateChat(ctx, chatID, api.ChatUpdate{Title: &title})
	if err != nil {
		log.Printf("chats: rename of %s failed, keeping optimistic title %q (was %q): %v",
			chatID, title, previous, err)
		return fmt.Errorf("failed to rename chat: %w", err)
	}

	c.mu.Lock()
	if chat := c.findLocked(chatID); chat != nil {
		chat.Title = updated.Title
		chat.UpdatedAt = updated.UpdatedAt
		model.SortChats(c.chats)
	}
	c.mu.Unlock()
	return nil
}

// Delete removes a chat after the backend confirms the deletion. If the
// deleted chat was active, the next chat in display order is selected,
// or the selection clears when none remain.
func (c *Controller) Delete(ctx context.Context, chatID string) error {
	if err := c.api.DeleteChat(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	c.mu.Lock()
	remaining := c.chats[:0]
	for _, chat := range c.chats {
		if chat.ID != chatID {
			remaining = append(remaining, chat)
		}
	}
	c.chats = remaining
	wasActive := c.activeID == chatID
	var next string
	if wasActive {
		c.activeID = ""
		if len(c.chats) > 0 {
			next = c.chats[0].ID
		}
	}
	c.mu.Unlock()

	if !wasActive {
		return nil
	}
	if next == "" {
		c.transcript.Deactivate()
		return nil
	}
	if err := c.activate(ctx, next); err != nil {
		// Deletion itself succeeded; the follow-up selection did not.
		c.transcript.Deactivate()
		return err
	}
	return nil
}

// TogglePin flips a chat's pin flag and re-sorts. Purely local: the
// backend has no pin field.
func (c *Controller) TogglePin(chatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	chat := c.findLocked(chatID)
	if chat == nil {
		return fmt.Errorf("%w: %s", ErrNoSuchChat, chatID)
	}
	chat.IsPinned = !chat.IsPinned
	model.SortChats(c.chats)
	return nil
}
