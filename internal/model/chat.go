// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages,
// documents and usage status.
package model

import (
	"sort"
	"strings"
	"time"

	"github.com/legaleagle/eagle-tui/internal/util"
)

// DefaultChatTitle is the placeholder title assigned to a freshly created
// chat until the first message derives a real one.
const DefaultChatTitle = "New Chat"

// DefaultPromptTemplate is the backend prompt template requested for new chats.
const DefaultPromptTemplate = "legal_general"

// TitleMaxRunes is the maximum derived-title length before truncation.
const TitleMaxRunes = 30

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat is one chat session as known to the backend, plus client-only
// presentation attributes.
type Chat struct {
	// Identity (backend-owned)
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	PromptTemplate string    `json:"prompt_template"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	IsActive       bool      `json:"is_active"`

	// Client-only attributes. The backend has no pin field; pins are
	// session-scoped and do not survive a full reload.
	IsPinned    bool `json:"-"`
	HasDocument bool `json:"-"`
}

// ActivityTime returns the timestamp used for recency ordering:
// UpdatedAt when set, otherwise CreatedAt.
func (c *Chat) ActivityTime() time.Time {
	if !c.UpdatedAt.IsZero() {
		return c.UpdatedAt
	}
	return c.CreatedAt
}

// MatchesFilter reports whether the chat title contains the query,
// case-insensitively. An empty query matches everything.
func (c *Chat) MatchesFilter(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), strings.ToLower(query))
}

// =============================================================================
// ORDERING
// =============================================================================

// SortChats orders chats in place: pinned chats first, and within each
// group by activity time descending. The sort is stable so equal
// timestamps keep their fetch order.
func SortChats(chats []*Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		if chats[i].IsPinned != chats[j].IsPinned {
			return chats[i].IsPinned
		}
		return chats[i].ActivityTime().After(chats[j].ActivityTime())
	})
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle builds a chat title from the first user message: the first
// TitleMaxRunes runes of the input, with "..." appended when truncated.
func DeriveTitle(input string) string {
	return util.TruncateRunes(strings.TrimSpace(input), TitleMaxRunes)
}
