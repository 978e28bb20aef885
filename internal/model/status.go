// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// USAGE STATUS
// =============================================================================

// UsageStatus is a point-in-time snapshot of the user's quota state as
// reported by the backend. Snapshots are replaced wholesale on refresh and
// never patched: the can* flags are the backend's derivation from counts,
// limits and the premium flag, so the client must not recompute them.
type UsageStatus struct {
	UserID            string `json:"user_id"`
	IsPremium         bool   `json:"is_premium"`
	CanCreateChat     bool   `json:"can_create_chat"`
	CanUploadDocument bool   `json:"can_upload_document"`
	CanQuery          bool   `json:"can_query"`
	ChatCount         int    `json:"chat_count"`
	DocumentCount     int    `json:"document_count"`
	RemainingQueries  int    `json:"remaining_queries"`
	ChatLimit         *int   `json:"chat_limit"`
	DocumentLimit     *int   `json:"document_limit"`
	Message           string `json:"message"`
}

// =============================================================================
// DOCUMENT TYPE
// =============================================================================

// Document describes one uploaded document attached to a chat. Documents
// are created only on confirmed upload; there is no optimistic entry.
type Document struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id,omitempty"`
	Filename   string    `json:"filename"`
	NumChunks  int       `json:"num_chunks"`
	FileSize   int64     `json:"file_size,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}
