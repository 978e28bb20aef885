// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/legaleagle/eagle-tui/internal/model"
)

// =============================================================================
// USER STATUS
// =============================================================================

// UserStatus fetches the authoritative quota snapshot for the user.
// Callers must replace any cached snapshot wholesale with the result.
func (c *Client) UserStatus(ctx context.Context, userID string) (*model.UsageStatus, error) {
	var status model.UsageStatus
	if err := c.getJSON(ctx, "/user/status?user_id="+url.QueryEscape(userID), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// =============================================================================
// PAYMENT OPERATIONS
// =============================================================================

// createOrderRequest is the body for POST /payment/create-order.
type createOrderRequest struct {
	UserID string `json:"user_id"`
}

// PaymentOrder holds the gateway order details needed to start checkout.
type PaymentOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
	Status   string `json:"status"`
}

// CreatePaymentOrder creates a gateway order for the premium upgrade.
func (c *Client) CreatePaymentOrder(ctx context.Context, userID string) (*PaymentOrder, error) {
	var order PaymentOrder
	err := c.doJSON(ctx, http.MethodPost, "/payment/create-order", createOrderRequest{UserID: userID}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// PaymentProof carries the gateway's checkout result back for verification.
type PaymentProof struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	UserID    string `json:"user_id"`
}

// PaymentVerification is the backend's verdict on a payment proof.
type PaymentVerification struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	IsPremium        bool   `json:"is_premium"`
	RemainingQueries int    `json:"remaining_queries"`
}

// VerifyPayment submits the gateway checkout proof for verification.
// On success the user's premium flag flips server-side; callers should
// refresh the usage status afterwards.
func (c *Client) VerifyPayment(ctx context.Context, proof PaymentProof) (*PaymentVerification, error) {
	var result PaymentVerification
	if err := c.doJSON(ctx, http.MethodPost, "/payment/verify", proof, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PaymentRecord is one entry in the user's payment history.
type PaymentRecord struct {
	ID        string   `json:"id"`
	OrderID   string   `json:"razorpay_order_id"`
	PaymentID string   `json:"razorpay_payment_id"`
	Amount    int      `json:"amount"`
	Currency  string   `json:"currency"`
	Status    string   `json:"status"`
	CreatedAt wireTime `json:"created_at"`
}

// Created returns the record's creation time.
func (p *PaymentRecord) Created() time.Time {
	return p.CreatedAt.Time
}

// paymentHistoryResponse is the body of GET /payment/history.
type paymentHistoryResponse struct {
	Payments []PaymentRecord `json:"payments"`
}

// PaymentHistory fetches the user's past payment attempts.
func (c *Client) PaymentHistory(ctx context.Context, userID string) ([]PaymentRecord, error) {
	var resp paymentHistoryResponse
	if err := c.getJSON(ctx, "/payment/history?user_id="+url.QueryEscape(userID), &resp); err != nil {
		return nil, err
	}
	return resp.Payments, nil
}

// =============================================================================
// TEMPLATES AND HEALTH
// =============================================================================

// Template describes one backend prompt template.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// templateListResponse is the body of GET /templates.
type templateListResponse struct {
	Templates []Template `json:"templates"`
}

// ListTemplates fetches the backend's prompt template catalog.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	var resp templateListResponse
	if err := c.getJSON(ctx, "/templates", &resp); err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

// GetTemplate fetches a single prompt template by id.
func (c *Client) GetTemplate(ctx context.Context, templateID string) (*Template, error) {
	var tmpl Template
	if err := c.getJSON(ctx, "/templates/"+url.PathEscape(templateID), &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status string `json:"status"`
}

// Health checks backend reachability. A nil error means the backend
// answered and reported itself healthy.
func (c *Client) Health(ctx context.Context) error {
	var resp healthResponse
	return c.getJSON(ctx, "/health", &resp)
}
