// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/legaleagle/eagle-tui/internal/model"
)

// fakeFetcher returns a canned status or error.
type fakeFetcher struct {
	status *model.UsageStatus
	err    error
	calls  int
}

func (f *fakeFetcher) UserStatus(ctx context.Context, userID string) (*model.UsageStatus, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	// Return a copy so the cache owns its snapshot.
	s := *f.status
	return &s, nil
}

func freeStatus() *model.UsageStatus {
	return &model.UsageStatus{
		UserID:            "u1",
		IsPremium:         false,
		CanCreateChat:     true,
		CanUploadDocument: true,
		CanQuery:          true,
		ChatCount:         1,
		RemainingQueries:  5,
	}
}

func TestRefresh_ReplacesWholesale(t *testing.T) {
	fetcher := &fakeFetcher{status: freeStatus()}
	cache := NewCache(fetcher)

	if err := cache.Refresh(context.Background(), "u1"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Second snapshot drops a field the first had set; nothing may merge.
	fetcher.status = &model.UsageStatus{UserID: "u1", CanQuery: true}
	if err := cache.Refresh(context.Background(), "u1"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	got, ok := cache.Snapshot()
	if !ok {
		t.Fatal("Snapshot should exist")
	}
	if got.CanCreateChat || got.RemainingQueries != 0 {
		t.Errorf("fields merged across snapshots: %+v", got)
	}
}

func TestRefresh_ErrorKeepsPrevious(t *testing.T) {
	fetcher := &fakeFetcher{status: freeStatus()}
	cache := NewCache(fetcher)
	cache.Refresh(context.Background(), "u1")

	fetcher.err = errors.New("backend down")
	if err := cache.Refresh(context.Background(), "u1"); err == nil {
		t.Fatal("Refresh should propagate the error")
	}

	got, ok := cache.Snapshot()
	if !ok || got.RemainingQueries != 5 {
		t.Errorf("previous snapshot should survive a failed refresh: %+v, %v", got, ok)
	}
}

func TestRefresh_Idempotent(t *testing.T) {
	fetcher := &fakeFetcher{status: freeStatus()}
	cache := NewCache(fetcher)

	cache.Refresh(context.Background(), "u1")
	first, _ := cache.Snapshot()
	cache.Refresh(context.Background(), "u1")
	second, _ := cache.Snapshot()

	if first != second {
		t.Errorf("same backend state should produce the same snapshot: %+v vs %+v", first, second)
	}
}

func TestGates_NoSnapshotAllows(t *testing.T) {
	cache := NewCache(&fakeFetcher{})

	if err := cache.CheckCreateChat(); err != nil {
		t.Errorf("CheckCreateChat with no snapshot: %v", err)
	}
	if err := cache.CheckQuery(); err != nil {
		t.Errorf("CheckQuery with no snapshot: %v", err)
	}
}

func TestGates_Blocked(t *testing.T) {
	status := freeStatus()
	status.CanCreateChat = false
	status.CanUploadDocument = false
	status.CanQuery = false

	cache := NewCache(&fakeFetcher{status: status})
	cache.Refresh(context.Background(), "u1")

	tests := []struct {
		name   string
		check  func() error
		action Action
	}{
		{"create chat", cache.CheckCreateChat, ActionCreateChat},
		{"upload", cache.CheckUploadDocument, ActionUploadDocument},
		{"query", cache.CheckQuery, ActionQuery},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.check()
			ue, ok := AsUpgrade(err)
			if !ok {
				t.Fatalf("expected UpgradeError, got %v", err)
			}
			if ue.Action != tc.action {
				t.Errorf("Action = %q, want %q", ue.Action, tc.action)
			}
			if ue.Message == "" {
				t.Error("upgrade message must not be empty")
			}
		})
	}
}

func TestGates_PremiumAlwaysAllowed(t *testing.T) {
	status := freeStatus()
	status.IsPremium = true
	status.CanCreateChat = false
	status.CanQuery = false

	cache := NewCache(&fakeFetcher{status: status})
	cache.Refresh(context.Background(), "u1")

	if err := cache.CheckCreateChat(); err != nil {
		t.Errorf("premium CheckCreateChat: %v", err)
	}
	if err := cache.CheckQuery(); err != nil {
		t.Errorf("premium CheckQuery: %v", err)
	}
}

func TestClear(t *testing.T) {
	cache := NewCache(&fakeFetcher{status: freeStatus()})
	cache.Refresh(context.Background(), "u1")
	cache.Clear()

	if _, ok := cache.Snapshot(); ok {
		t.Error("Clear should drop the snapshot")
	}
}
