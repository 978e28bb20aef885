// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// CHAT ORDERING TESTS
// =============================================================================

func chatAt(id string, pinned bool, updated time.Time) *Chat {
	return &Chat{ID: id, Title: id, IsPinned: pinned, UpdatedAt: updated}
}

func TestSortChats_PinnedFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	chats := []*Chat{
		chatAt("old-pinned", true, base.Add(-48*time.Hour)),
		chatAt("newest-unpinned", false, base),
		chatAt("new-pinned", true, base.Add(-1*time.Hour)),
		chatAt("old-unpinned", false, base.Add(-24*time.Hour)),
	}

	SortChats(chats)

	want := []string{"new-pinned", "old-pinned", "newest-unpinned", "old-unpinned"}
	for i, id := range want {
		if chats[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, chats[i].ID, id)
		}
	}

	// Every pinned chat must come before every unpinned chat.
	seenUnpinned := false
	for _, c := range chats {
		if !c.IsPinned {
			seenUnpinned = true
		} else if seenUnpinned {
			t.Errorf("pinned chat %s after an unpinned chat", c.ID)
		}
	}
}

func TestChat_ActivityTime_FallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c := &Chat{CreatedAt: created}
	if got := c.ActivityTime(); !got.Equal(created) {
		t.Errorf("ActivityTime = %v, want CreatedAt %v", got, created)
	}

	updated := created.Add(time.Hour)
	c.UpdatedAt = updated
	if got := c.ActivityTime(); !got.Equal(updated) {
		t.Errorf("ActivityTime = %v, want UpdatedAt %v", got, updated)
	}
}

func TestChat_MatchesFilter(t *testing.T) {
	c := &Chat{Title: "Employment Contract Review"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"contract", true},
		{"CONTRACT", true},
		{"review", true},
		{"lease", false},
	}

	for _, tc := range tests {
		if got := c.MatchesFilter(tc.query); got != tc.want {
			t.Errorf("MatchesFilter(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short input kept", "What is clause 7?", "What is clause 7?"},
		{"exactly thirty runes", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"long input truncated", strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{"whitespace trimmed", "  hello  ", "hello"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveTitle(tc.in); got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewPendingMessage(t *testing.T) {
	msg := NewPendingMessage("chat_1", "What is the termination clause?", "")

	if !msg.Pending {
		t.Error("pending message should have Pending=true")
	}
	if !IsTempID(msg.ID) {
		t.Errorf("pending message id %q should be a temp id", msg.ID)
	}
	if msg.Role != RoleUser {
		t.Errorf("role = %s, want user", msg.Role)
	}
	if msg.Content != "What is the termination clause?" {
		t.Errorf("content = %q", msg.Content)
	}
	if msg.ChatID != "chat_1" {
		t.Errorf("chat id = %q", msg.ChatID)
	}
}

func TestNewTempID_Unique(t *testing.T) {
	a := NewTempID()
	b := NewTempID()
	if a == b {
		t.Errorf("temp ids should be unique, got %q twice", a)
	}
	if !IsTempID(a) || !IsTempID(b) {
		t.Error("generated ids should satisfy IsTempID")
	}
	if IsTempID("msg_abc123") {
		t.Error("backend-style id should not be a temp id")
	}
}

func TestMessage_Preview(t *testing.T) {
	m := &Message{Content: "line one\nline two"}
	if got := m.Preview(50); got != "line one line two" {
		t.Errorf("Preview = %q", got)
	}

	long := &Message{Content: strings.Repeat("x", 100)}
	if got := long.Preview(10); len([]rune(got)) != 10 {
		t.Errorf("Preview length = %d, want 10", len([]rune(got)))
	}
}
