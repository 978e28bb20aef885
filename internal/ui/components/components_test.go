// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/legaleagle/eagle-tui/internal/model"
)

func TestRenderSidebar_MarksActiveAndPinned(t *testing.T) {
	chats := []*model.Chat{
		{ID: "a", Title: "Pinned chat", IsPinned: true},
		{ID: "b", Title: "Plain chat"},
	}

	out := RenderSidebar(chats, "b", "", 30, 10)
	if !strings.Contains(out, "📌") {
		t.Error("pinned chat should carry the pin marker")
	}
	if !strings.Contains(out, "Plain chat") {
		t.Error("chat titles should render")
	}
}

func TestRenderSidebar_TruncatesWideTitles(t *testing.T) {
	chats := []*model.Chat{
		{ID: "a", Title: strings.Repeat("委任状の確認", 10)},
	}

	out := RenderSidebar(chats, "", "", 20, 10)
	for _, line := range strings.Split(out, "\n") {
		// Sanity: no line should carry the full 60-rune title.
		if strings.Count(line, "委") > 10 {
			t.Errorf("title not truncated: %q", line)
		}
	}
}

func TestRenderSidebar_EmptyList(t *testing.T) {
	out := RenderSidebar(nil, "", "", 30, 10)
	if !strings.Contains(out, "No chats yet") {
		t.Error("empty list placeholder missing")
	}
}

func TestRenderUsage(t *testing.T) {
	if got := RenderUsage(model.UsageStatus{}, false); got != "" {
		t.Errorf("no snapshot should render nothing, got %q", got)
	}

	if got := RenderUsage(model.UsageStatus{IsPremium: true}, true); !strings.Contains(got, "Premium") {
		t.Errorf("premium badge missing: %q", got)
	}

	limit := 3
	got := RenderUsage(model.UsageStatus{ChatCount: 2, ChatLimit: &limit, RemainingQueries: 7}, true)
	if !strings.Contains(got, "2/3") || !strings.Contains(got, "7") {
		t.Errorf("free plan summary = %q", got)
	}
}

func TestRenderError_EmptyIsBlank(t *testing.T) {
	if got := RenderError("", 80); got != "" {
		t.Errorf("empty error should render nothing, got %q", got)
	}
}
