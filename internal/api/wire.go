// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/legaleagle/eagle-tui/internal/model"
)

// =============================================================================
// WIRE TIME
// =============================================================================

// wireTime tolerates the backend's timestamp formats. The backend stores
// naive UTC datetimes, so payloads arrive both with and without a zone
// offset and with varying fractional precision.
type wireTime struct {
	time.Time
}

// timeLayouts are tried in order when parsing a wire timestamp.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *wireTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// Zone-less timestamps are UTC by backend convention.
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// =============================================================================
// CHAT WIRE SHAPES
// =============================================================================

// wireChat is the backend's chat object.
type wireChat struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	Title          string   `json:"title"`
	PromptTemplate string   `json:"prompt_template"`
	CreatedAt      wireTime `json:"created_at"`
	UpdatedAt      wireTime `json:"updated_at"`
	IsActive       bool     `json:"is_active"`
}

func (w *wireChat) toModel() *model.Chat {
	return &model.Chat{
		ID:             w.ID,
		UserID:         w.UserID,
		Title:          w.Title,
		PromptTemplate: w.PromptTemplate,
		CreatedAt:      w.CreatedAt.Time,
		UpdatedAt:      w.UpdatedAt.Time,
		IsActive:       w.IsActive,
	}
}

// wireMessage is the backend's message object.
type wireMessage struct {
	ID        string   `json:"id"`
	ChatID    string   `json:"chat_id"`
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Sources   []int    `json:"sources"`
	CreatedAt wireTime `json:"created_at"`
}

func (w *wireMessage) toModel() *model.Message {
	sources := w.Sources
	if sources == nil {
		sources = []int{}
	}
	return &model.Message{
		ID:        w.ID,
		ChatID:    w.ChatID,
		Role:      model.Role(w.Role),
		Content:   w.Content,
		Sources:   sources,
		CreatedAt: w.CreatedAt.Time,
	}
}

// wireDocument is the backend's document object.
type wireDocument struct {
	ID         string   `json:"id"`
	ChatID     string   `json:"chat_id"`
	Filename   string   `json:"filename"`
	NumChunks  int      `json:"num_chunks"`
	FileSize   int64    `json:"file_size"`
	UploadedAt wireTime `json:"uploaded_at"`
}

func (w *wireDocument) toModel() *model.Document {
	return &model.Document{
		ID:         w.ID,
		ChatID:     w.ChatID,
		Filename:   w.Filename,
		NumChunks:  w.NumChunks,
		FileSize:   w.FileSize,
		UploadedAt: w.UploadedAt.Time,
	}
}
