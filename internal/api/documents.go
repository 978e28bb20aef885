// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/legaleagle/eagle-tui/internal/model"
)

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// UploadResult is the backend's confirmation of a document upload.
type UploadResult struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks"`
}

// UploadDocument uploads a file to a chat as multipart form data.
//
// Uploads are never retried: the body cannot be rewound and the backend
// ingestion is not idempotent.
func (c *Client) UploadDocument(ctx context.Context, chatID, filename string, content io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to buffer file: %w", err)
	}
	if err := writer.WriteField("chat_id", chatID); err != nil {
		return nil, fmt.Errorf("failed to write chat_id field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setHeaders(req)

	body, err := c.doOnce(ctx, req)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := unmarshalBody(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadText ingests pasted text into a chat as a pseudo-document.
func (c *Client) UploadText(ctx context.Context, chatID, text, sourceName string) (*UploadResult, error) {
	if sourceName == "" {
		sourceName = "Pasted Text"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("chat_id", chatID); err != nil {
		return nil, fmt.Errorf("failed to write chat_id field: %w", err)
	}
	if err := writer.WriteField("text", text); err != nil {
		return nil, fmt.Errorf("failed to write text field: %w", err)
	}
	if err := writer.WriteField("source_name", sourceName); err != nil {
		return nil, fmt.Errorf("failed to write source_name field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/text", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setHeaders(req)

	body, err := c.doOnce(ctx, req)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := unmarshalBody(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// documentListResponse is the body of GET /chats/{id}/documents.
type documentListResponse struct {
	Documents []wireDocument `json:"documents"`
}

// ListDocuments fetches the documents uploaded to a chat.
func (c *Client) ListDocuments(ctx context.Context, chatID string) ([]*model.Document, error) {
	var resp documentListResponse
	if err := c.getJSON(ctx, "/chats/"+url.PathEscape(chatID)+"/documents", &resp); err != nil {
		return nil, err
	}

	docs := make([]*model.Document, 0, len(resp.Documents))
	for i := range resp.Documents {
		docs = append(docs, resp.Documents[i].toModel())
	}
	return docs, nil
}
