// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "LegalEagle"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// tempIDPrefix marks client-generated ids for optimistic messages.
const tempIDPrefix = "temp_"

// Message is a single message in a chat. Messages are append-only: once
// confirmed by the backend they are never edited or reordered.
//
// A message exists in one of two states. A pending message was applied
// optimistically before backend confirmation; it carries a temporary id
// and Pending=true. A confirmed message carries the backend-assigned id.
// Reconciliation replaces the pending entry wholesale - the two are not
// guaranteed to share any field beyond the raw content.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Tool      string    `json:"tool,omitempty"`
	Sources   []int     `json:"sources"`
	CreatedAt time.Time `json:"created_at"`

	// Pending marks an optimistic entry awaiting confirmation. Never
	// persisted or sent to the backend.
	Pending bool `json:"-"`
}

// NewPendingMessage creates an optimistic user message with a temporary id.
// The content is the raw user input, not the tool-augmented query.
func NewPendingMessage(chatID, content, toolLabel string) *Message {
	return &Message{
		ID:        NewTempID(),
		ChatID:    chatID,
		Role:      RoleUser,
		Content:   content,
		Tool:      toolLabel,
		Sources:   []int{},
		CreatedAt: time.Now(),
		Pending:   true,
	}
}

// NewTempID generates a temporary client-side message id.
func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether an id was generated client-side.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Preview returns a truncated single-line preview of the message content.
func (m *Message) Preview(maxRunes int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= maxRunes {
		return content
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}
