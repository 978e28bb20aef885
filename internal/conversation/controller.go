// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation manages the active chat's message stream and
// document list, including the optimistic send lifecycle.
//
// Sends are optimistic: the user's message appears immediately under a
// temporary id, then the whole entry is replaced - not patched - once
// the backend confirms, because the confirmed pair (user echo plus
// assistant answer) shares nothing with the optimistic entry beyond the
// raw content. Every state update is scoped by chat id so a continuation
// that lands after the user switched chats is a safe no-op.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/legaleagle/eagle-tui/internal/api"
	"github.com/legaleagle/eagle-tui/internal/model"
	"github.com/legaleagle/eagle-tui/internal/tools"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoActiveChat indicates no chat is selected.
	ErrNoActiveChat = errors.New("no active chat")
	// ErrEmptyMessage indicates the trimmed input was empty.
	ErrEmptyMessage = errors.New("message cannot be empty")
	// ErrSendInFlight indicates a send is already running for this chat.
	// Concurrent sends are refused, never queued.
	ErrSendInFlight = errors.New("a message is already being sent for this chat")
)

// ValidationError is a client-side rejection raised before any network
// call, with a user-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Upload rejection messages shown before any network call.
const (
	wrongTypeMessage = "Only PDF files are allowed. Please upload a PDF document."
	tooLargeMessage  = "File size must be less than 50MB."
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// backend is the slice of the API client the controller needs.
type backend interface {
	Ask(ctx context.Context, chatID, query string, useContext bool) (*api.Answer, error)
	UploadDocument(ctx context.Context, chatID, filename string, content io.Reader) (*api.UploadResult, error)
	UploadText(ctx context.Context, chatID, text, sourceName string) (*api.UploadResult, error)
}

// usage gates quota-consuming actions and refreshes the snapshot after
// them.
type usage interface {
	CheckQuery() error
	CheckUploadDocument() error
	Refresh(ctx context.Context, userID string) error
}

// renamer issues the auto-title rename after a chat's first message.
// Implemented by the chat list controller.
type renamer interface {
	Rename(ctx context.Context, chatID, newTitle string) error
}

// UploadLimits holds the client-side validation ceiling for uploads.
// The backend enforces the same limits authoritatively.
type UploadLimits struct {
	MaxBytes  int64
	Extension string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the transcript of the active chat.
type Controller struct {
	mu      sync.Mutex
	api     backend
	usage   usage
	renamer renamer
	limits  UploadLimits

	chat      *model.Chat
	messages  []*model.Message
	documents []*model.Document

	// inFlight serializes sends per chat. Keyed by chat id because a
	// send's continuation can outlive the selection that started it.
	inFlight map[string]bool
}

// NewController returns a controller with no active chat.
func NewController(apiClient backend, usage usage, renamer renamer, limits UploadLimits) *Controller {
	return &Controller{
		api:      apiClient,
		usage:    usage,
		renamer:  renamer,
		limits:   limits,
		inFlight: make(map[string]bool),
	}
}

// =============================================================================
// ACTIVATION (chats.Transcript)
// =============================================================================

// Activate replaces all transcript state with the given chat's. No
// merging with the previous chat's state ever happens.
func (c *Controller) Activate(chat *model.Chat, messages []*model.Message, docs []*model.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chat = chat
	c.messages = append([]*model.Message(nil), messages...)
	c.documents = append([]*model.Document(nil), docs...)
}

// Deactivate clears the transcript to the empty state.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chat = nil
	c.messages = nil
	c.documents = nil
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Chat returns the active chat, or nil.
func (c *Controller) Chat() *model.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chat
}

// Messages returns a copy of the transcript.
func (c *Controller) Messages() []*model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*model.Message(nil), c.messages...)
}

// Documents returns a copy of the uploaded-document list.
func (c *Controller) Documents() []*model.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*model.Document(nil), c.documents...)
}

// Sending reports whether a send is in flight for the active chat.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chat != nil && c.inFlight[c.chat.ID]
}

// =============================================================================
// SEND
// =============================================================================

// Send delivers the user's input to the backend through the selected
// tool's prompt transform. The raw input, not the augmented query, is
// what the transcript displays.
//
// The send is optimistic: a pending message appears immediately and is
// replaced wholesale by the confirmed user/assistant pair on success,
// or removed on failure. Quota errors (local gate or backend rejection)
// surface as-is so the caller can route to the upgrade flow.
func (c *Controller) Send(ctx context.Context, userID, rawInput, toolID string) error {
	raw := strings.TrimSpace(rawInput)
	if raw == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.chat == nil {
		c.mu.Unlock()
		return ErrNoActiveChat
	}
	chatID := c.chat.ID
	if c.inFlight[chatID] {
		c.mu.Unlock()
		return ErrSendInFlight
	}
	if err := c.usage.CheckQuery(); err != nil {
		c.mu.Unlock()
		return err
	}

	pending := model.NewPendingMessage(chatID, raw, tools.Label(toolID))
	c.messages = append(c.messages, pending)
	c.inFlight[chatID] = true
	firstMessage := c.chat.Title == model.DefaultChatTitle
	c.mu.Unlock()

	// The flag must clear on every exit path, parse panics included.
	defer func() {
		c.mu.Lock()
		delete(c.inFlight, chatID)
		c.mu.Unlock()
	}()

	query := tools.Apply(toolID, raw)
	answer, err := c.api.Ask(ctx, chatID, query, true)
	if err != nil {
		c.removeMessage(chatID, pending.ID)
		return err
	}

	c.confirmSend(chatID, pending.ID, raw, tools.Label(toolID), answer)

	if firstMessage {
		// Secondary rename: best effort, never rolls back the send.
		if err := c.renamer.Rename(ctx, chatID, model.DeriveTitle(raw)); err != nil {
			log.Printf("conversation: auto-title of %s failed: %v", chatID, err)
		}
	}

	if err := c.usage.Refresh(ctx, userID); err != nil {
		log.Printf("conversation: status refresh after send failed: %v", err)
	}
	return nil
}

// confirmSend applies the success reconciliation as one state
// transition: the pending entry goes and the confirmed user/assistant
// pair lands, atomically with respect to any concurrent render. If the
// user switched chats mid-flight the update is a no-op.
func (c *Controller) confirmSend(chatID, tempID, raw, toolLabel string, answer *api.Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chat == nil || c.chat.ID != chatID {
		return
	}

	kept := make([]*model.Message, 0, len(c.messages)+1)
	for _, m := range c.messages {
		if m.ID != tempID {
			kept = append(kept, m)
		}
	}
	kept = append(kept,
		&model.Message{
			ID:        "user_" + answer.MessageID,
			ChatID:    chatID,
			Role:      model.RoleUser,
			Content:   raw,
			Tool:      toolLabel,
			Sources:   []int{},
			CreatedAt: time.Now(),
		},
		&model.Message{
			ID:        answer.MessageID,
			ChatID:    chatID,
			Role:      model.RoleAssistant,
			Content:   answer.Content,
			Sources:   answer.Sources,
			CreatedAt: time.Now(),
		})
	c.messages = kept
}

// removeMessage drops a message by id, scoped to chatID so stale
// failures for a no-longer-active chat cannot touch current state.
func (c *Controller) removeMessage(chatID, messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chat == nil || c.chat.ID != chatID {
		return
	}
	kept := c.messages[:0]
	for _, m := range c.messages {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	c.messages = kept
}

// =============================================================================
// UPLOAD
// =============================================================================

// Upload validates and uploads a PDF to the active chat. Validation
// failures (type, size) are raised before any network call; quota
// errors surface as-is for upgrade-flow routing. There is no optimistic
// document entry: the list grows only on backend confirmation.
func (c *Controller) Upload(ctx context.Context, userID, path string) (*model.Document, error) {
	c.mu.Lock()
	if c.chat == nil {
		c.mu.Unlock()
		return nil, ErrNoActiveChat
	}
	chatID := c.chat.ID
	c.mu.Unlock()

	if err := c.usage.CheckUploadDocument(); err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(path), c.limits.Extension) {
		return nil, &ValidationError{Message: wrongTypeMessage}
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if info.Size() > c.limits.MaxBytes {
		return nil, &ValidationError{Message: tooLargeMessage}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	result, err := c.api.UploadDocument(ctx, chatID, filepath.Base(path), file)
	if err != nil {
		return nil, err
	}

	doc := c.confirmUpload(chatID, result)

	if err := c.usage.Refresh(ctx, userID); err != nil {
		log.Printf("conversation: status refresh after upload failed: %v", err)
	}
	return doc, nil
}

// UploadText ingests pasted text as a pseudo-document.
func (c *Controller) UploadText(ctx context.Context, userID, text, sourceName string) (*model.Document, error) {
	c.mu.Lock()
	if c.chat == nil {
		c.mu.Unlock()
		return nil, ErrNoActiveChat
	}
	chatID := c.chat.ID
	c.mu.Unlock()

	if err := c.usage.CheckUploadDocument(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Message: "Text cannot be empty."}
	}

	result, err := c.api.UploadText(ctx, chatID, text, sourceName)
	if err != nil {
		return nil, err
	}

	doc := c.confirmUpload(chatID, result)

	if err := c.usage.Refresh(ctx, userID); err != nil {
		log.Printf("conversation: status refresh after upload failed: %v", err)
	}
	return doc, nil
}

// confirmUpload appends the confirmed document and flags the chat.
// Stale confirmations for a switched-away chat are dropped.
func (c *Controller) confirmUpload(chatID string, result *api.UploadResult) *model.Document {
	doc := &model.Document{
		ID:        result.DocumentID,
		ChatID:    chatID,
		Filename:  result.Filename,
		NumChunks: result.Chunks,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chat == nil || c.chat.ID != chatID {
		return doc
	}
	c.documents = append(c.documents, doc)
	c.chat.HasDocument = true
	return doc
}

// RemoveDocument drops a document from the local list only. The backend
// has no per-document delete endpoint; the underlying resource stays.
func (c *Controller) RemoveDocument(docID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.documents[:0]
	for _, d := range c.documents {
		if d.ID != docID {
			kept = append(kept, d)
		}
	}
	c.documents = kept
	if c.chat != nil && len(c.documents) == 0 {
		c.chat.HasDocument = false
	}
}
