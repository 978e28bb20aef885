// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/legaleagle/eagle-tui/internal/api"
)

type fakeGateway struct {
	order     *api.PaymentOrder
	verify    *api.PaymentVerification
	verifyErr error
}

func (f *fakeGateway) CreatePaymentOrder(ctx context.Context, userID string) (*api.PaymentOrder, error) {
	return f.order, nil
}

func (f *fakeGateway) VerifyPayment(ctx context.Context, proof api.PaymentProof) (*api.PaymentVerification, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verify, nil
}

func (f *fakeGateway) PaymentHistory(ctx context.Context, userID string) ([]api.PaymentRecord, error) {
	return []api.PaymentRecord{{ID: "p1", Status: "success"}}, nil
}

type fakeRefresher struct{ refreshes int }

func (f *fakeRefresher) Refresh(ctx context.Context, userID string) error {
	f.refreshes++
	return nil
}

func TestVerify_SuccessRefreshesStatus(t *testing.T) {
	refresher := &fakeRefresher{}
	ctrl := NewController(&fakeGateway{
		verify: &api.PaymentVerification{Status: "success", IsPremium: true},
	}, refresher)

	result, err := ctrl.Verify(context.Background(), api.PaymentProof{UserID: "u1"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.IsPremium {
		t.Error("IsPremium should be true")
	}
	if refresher.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", refresher.refreshes)
	}
}

func TestVerify_RejectedProof(t *testing.T) {
	refresher := &fakeRefresher{}
	ctrl := NewController(&fakeGateway{
		verify: &api.PaymentVerification{Status: "failed", Message: "signature mismatch"},
	}, refresher)

	_, err := ctrl.Verify(context.Background(), api.PaymentProof{UserID: "u1"})
	if !errors.Is(err, ErrNotVerified) {
		t.Fatalf("Verify = %v, want ErrNotVerified", err)
	}
	if refresher.refreshes != 0 {
		t.Error("rejected proof must not refresh the snapshot")
	}
}

func TestVerify_TransportError(t *testing.T) {
	ctrl := NewController(&fakeGateway{verifyErr: errors.New("backend down")}, &fakeRefresher{})

	if _, err := ctrl.Verify(context.Background(), api.PaymentProof{}); err == nil {
		t.Fatal("Verify should propagate the error")
	}
}

func TestHistory(t *testing.T) {
	ctrl := NewController(&fakeGateway{}, &fakeRefresher{})

	records, err := ctrl.History(context.Background(), "u1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(records) != 1 || records[0].ID != "p1" {
		t.Errorf("records = %+v", records)
	}
}
