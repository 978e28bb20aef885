// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package payment drives the premium upgrade flow: order creation,
// proof verification and history. The payment gateway itself is an
// opaque external collaborator; this controller only brokers the
// backend calls around it.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/legaleagle/eagle-tui/internal/api"
)

// ErrNotVerified indicates the backend rejected the payment proof.
var ErrNotVerified = errors.New("payment could not be verified")

// gateway is the slice of the API client the controller needs.
type gateway interface {
	CreatePaymentOrder(ctx context.Context, userID string) (*api.PaymentOrder, error)
	VerifyPayment(ctx context.Context, proof api.PaymentProof) (*api.PaymentVerification, error)
	PaymentHistory(ctx context.Context, userID string) ([]api.PaymentRecord, error)
}

// refresher refetches the usage snapshot after a successful upgrade.
type refresher interface {
	Refresh(ctx context.Context, userID string) error
}

// Controller brokers the upgrade flow against the backend.
type Controller struct {
	api   gateway
	quota refresher
}

// NewController returns a payment controller.
func NewController(apiClient gateway, quota refresher) *Controller {
	return &Controller{api: apiClient, quota: quota}
}

// CreateOrder opens a gateway order for the premium upgrade.
func (c *Controller) CreateOrder(ctx context.Context, userID string) (*api.PaymentOrder, error) {
	order, err := c.api.CreatePaymentOrder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}
	return order, nil
}

// Verify submits the gateway checkout proof. On success the premium
// flag flips server-side, so the usage snapshot is refreshed before
// returning; a failed refresh is non-fatal since the next
// quota-consuming action refreshes again.
func (c *Controller) Verify(ctx context.Context, proof api.PaymentProof) (*api.PaymentVerification, error) {
	result, err := c.api.VerifyPayment(ctx, proof)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}
	if result.Status != "success" {
		return result, fmt.Errorf("%w: %s", ErrNotVerified, result.Message)
	}

	if err := c.quota.Refresh(ctx, proof.UserID); err != nil {
		log.Printf("payment: status refresh after upgrade failed: %v", err)
	}
	return result, nil
}

// History lists the user's past payment attempts.
func (c *Controller) History(ctx context.Context, userID string) ([]api.PaymentRecord, error) {
	records, err := c.api.PaymentHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}
	return records, nil
}
