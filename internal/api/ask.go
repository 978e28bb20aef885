// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/legaleagle/eagle-tui/internal/util"
)

// =============================================================================
// ASK / SEARCH OPERATIONS
// =============================================================================

// askRequest is the body for POST /ask.
type askRequest struct {
	ChatID     string `json:"chat_id"`
	Query      string `json:"query"`
	UseContext bool   `json:"use_context"`
}

// Answer is the backend's reply to an ask request.
type Answer struct {
	MessageID string `json:"message_id"`
	ChatID    string `json:"chat_id"`
	Content   string `json:"answer"`
	Sources   []int  `json:"sources"`
	Status    string `json:"status"`
}

// Ask submits a question against the chat's documents and returns the
// generated answer with its citation references. The query is the
// tool-augmented text, not necessarily what the user typed.
func (c *Client) Ask(ctx context.Context, chatID, query string, useContext bool) (*Answer, error) {
	var resp Answer
	err := c.doJSON(ctx, http.MethodPost, "/ask", askRequest{
		ChatID:     chatID,
		Query:      query,
		UseContext: useContext,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Sources == nil {
		resp.Sources = []int{}
	}
	return &resp, nil
}

// SearchResult is one chunk returned by similarity search.
type SearchResult struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
}

// searchResponse is the body of POST /search.
type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// SimilaritySearch runs a raw vector similarity search over the chat's
// documents, without LLM generation.
func (c *Client) SimilaritySearch(ctx context.Context, chatID, query string, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	path := "/search?chat_id=" + url.QueryEscape(chatID) +
		"&query=" + url.QueryEscape(query) +
		"&top_k=" + util.IntToString(topK)

	var resp searchResponse
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
