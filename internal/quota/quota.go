// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quota caches the backend's usage snapshot and gates
// quota-limited actions before they hit the network.
//
// The cache is advisory: it exists to give instant feedback and to skip
// doomed requests. The backend remains authoritative and re-checks every
// limit, so a stale snapshot is at worst a wasted round trip.
package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/legaleagle/eagle-tui/internal/model"
)

// =============================================================================
// UPGRADE ERRORS
// =============================================================================

// Action names a quota-limited operation.
type Action string

const (
	ActionCreateChat     Action = "create_chat"
	ActionUploadDocument Action = "upload_document"
	ActionQuery          Action = "query"
)

// Upgrade prompts shown when a free-plan limit is hit.
const (
	chatLimitMessage   = "You've reached your free chat limit. Upgrade to Premium for unlimited chats!"
	uploadLimitMessage = "You've reached your free document upload limit. Upgrade to Premium for unlimited uploads!"
	queryLimitMessage  = "You've used all your queries. Upgrade to Premium for 100 more AI queries!"
)

// UpgradeError reports a blocked action with the user-facing upgrade
// prompt for it.
type UpgradeError struct {
	Action  Action
	Message string
}

func (e *UpgradeError) Error() string {
	return e.Message
}

// AsUpgrade extracts an UpgradeError from err, if present.
func AsUpgrade(err error) (*UpgradeError, bool) {
	var ue *UpgradeError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// =============================================================================
// STATUS CACHE
// =============================================================================

// statusFetcher is the slice of the API client the cache needs.
type statusFetcher interface {
	UserStatus(ctx context.Context, userID string) (*model.UsageStatus, error)
}

// Cache holds the most recent usage snapshot for one user.
type Cache struct {
	mu       sync.RWMutex
	fetcher  statusFetcher
	snapshot *model.UsageStatus
}

// NewCache returns an empty cache backed by fetcher.
func NewCache(fetcher statusFetcher) *Cache {
	return &Cache{fetcher: fetcher}
}

// Refresh fetches a fresh snapshot and replaces the cached one
// wholesale. Concurrent refreshes are last-write-wins; fields are never
// merged across snapshots. On error the previous snapshot stays.
func (c *Cache) Refresh(ctx context.Context, userID string) error {
	status, err := c.fetcher.UserStatus(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to refresh usage status: %w", err)
	}

	c.mu.Lock()
	c.snapshot = status
	c.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the cached status. ok is false when no
// snapshot has been fetched yet.
func (c *Cache) Snapshot() (model.UsageStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return model.UsageStatus{}, false
	}
	return *c.snapshot, true
}

// Clear drops the snapshot. Called on sign-out.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}

// =============================================================================
// GATES
// =============================================================================

// CheckCreateChat reports whether a new chat may be created. With no
// snapshot the gate is open; the backend still enforces the limit.
func (c *Cache) CheckCreateChat() error {
	return c.check(func(s *model.UsageStatus) bool { return s.CanCreateChat },
		&UpgradeError{Action: ActionCreateChat, Message: chatLimitMessage})
}

// CheckUploadDocument reports whether a document upload may start.
func (c *Cache) CheckUploadDocument() error {
	return c.check(func(s *model.UsageStatus) bool { return s.CanUploadDocument },
		&UpgradeError{Action: ActionUploadDocument, Message: uploadLimitMessage})
}

// CheckQuery reports whether an AI query may be sent.
func (c *Cache) CheckQuery() error {
	return c.check(func(s *model.UsageStatus) bool { return s.CanQuery },
		&UpgradeError{Action: ActionQuery, Message: queryLimitMessage})
}

func (c *Cache) check(allowed func(*model.UsageStatus) bool, blocked *UpgradeError) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil
	}
	if c.snapshot.IsPremium || allowed(c.snapshot) {
		return nil
	}
	return blocked
}
