// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/legaleagle/eagle-tui/internal/model"
	"github.com/legaleagle/eagle-tui/internal/util"
)

// DefaultListLimit is the default maximum number of chats fetched per list.
const DefaultListLimit = 50

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// createChatRequest is the body for POST /chats.
type createChatRequest struct {
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	PromptTemplate string `json:"prompt_template"`
}

// CreateChat creates a new chat session for the user. The backend assigns
// the chat id; no chat exists client-side until this returns.
func (c *Client) CreateChat(ctx context.Context, userID, title, promptTemplate string) (*model.Chat, error) {
	if title == "" {
		title = model.DefaultChatTitle
	}
	if promptTemplate == "" {
		promptTemplate = model.DefaultPromptTemplate
	}

	var resp wireChat
	err := c.doJSON(ctx, http.MethodPost, "/chats", createChatRequest{
		UserID:         userID,
		Title:          title,
		PromptTemplate: promptTemplate,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// chatListResponse is the body of GET /chats.
type chatListResponse struct {
	Chats []wireChat `json:"chats"`
	Total int        `json:"total"`
}

// ListChats fetches all chats for the user, newest activity first as
// returned by the backend. Pass limit <= 0 for the default.
func (c *Client) ListChats(ctx context.Context, userID string, limit int) ([]*model.Chat, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	path := "/chats?user_id=" + url.QueryEscape(userID) + "&limit=" + util.IntToString(limit)

	var resp chatListResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	chats := make([]*model.Chat, 0, len(resp.Chats))
	for i := range resp.Chats {
		chats = append(chats, resp.Chats[i].toModel())
	}
	return chats, nil
}

// chatHistoryResponse is the body of GET /chats/{id}.
type chatHistoryResponse struct {
	Chat     wireChat      `json:"chat"`
	Messages []wireMessage `json:"messages"`
}

// GetChatHistory fetches a chat and its full message history.
func (c *Client) GetChatHistory(ctx context.Context, chatID string) (*model.Chat, []*model.Message, error) {
	var resp chatHistoryResponse
	if err := c.getJSON(ctx, "/chats/"+url.PathEscape(chatID), &resp); err != nil {
		return nil, nil, err
	}

	messages := make([]*model.Message, 0, len(resp.Messages))
	for i := range resp.Messages {
		messages = append(messages, resp.Messages[i].toModel())
	}
	return resp.Chat.toModel(), messages, nil
}

// ChatUpdate holds the mutable chat fields for PATCH /chats/{id}.
// Nil fields are left untouched by the backend.
type ChatUpdate struct {
	Title          *string `json:"title,omitempty"`
	PromptTemplate *string `json:"prompt_template,omitempty"`
}

// UpdateChat patches chat metadata and returns the updated chat.
func (c *Client) UpdateChat(ctx context.Context, chatID string, update ChatUpdate) (*model.Chat, error) {
	var resp wireChat
	err := c.doJSON(ctx, http.MethodPatch, "/chats/"+url.PathEscape(chatID), update, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// DeleteChat deletes a chat and all its associated backend data.
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/chats/"+url.PathEscape(chatID), nil, nil)
}
