// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/legaleagle/eagle-tui/internal/api"
	"github.com/legaleagle/eagle-tui/internal/session"
)

// Status prints the signed-in account and its usage snapshot.
func Status(ctx context.Context, sessions *session.Store, client *api.Client) error {
	current := sessions.Current()
	if !current.IsSignedIn() {
		fmt.Println("Not signed in. Run: eagle login")
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Account:\n  User: %s\n", current.UserID)
	if current.DisplayName != "" {
		fmt.Fprintf(&sb, "  Name: %s\n", current.DisplayName)
	}
	if current.Email != "" {
		fmt.Fprintf(&sb, "  Email: %s\n", current.Email)
	}

	status, err := client.UserStatus(ctx, current.UserID)
	if err != nil {
		fmt.Print(sb.String())
		return fmt.Errorf("failed to fetch usage status: %w", err)
	}

	sb.WriteString("\nPlan:\n")
	if status.IsPremium {
		sb.WriteString("  Premium (unlimited chats and uploads)\n")
		fmt.Fprintf(&sb, "  Queries remaining: %d\n", status.RemainingQueries)
	} else {
		sb.WriteString("  Free\n")
		fmt.Fprintf(&sb, "  Chats: %s\n", quotaLine(status.ChatCount, status.ChatLimit))
		fmt.Fprintf(&sb, "  Documents: %s\n", quotaLine(status.DocumentCount, status.DocumentLimit))
		fmt.Fprintf(&sb, "  Queries remaining: %d\n", status.RemainingQueries)
	}

	fmt.Print(sb.String())
	return nil
}

func quotaLine(used int, limit *int) string {
	if limit == nil {
		return fmt.Sprintf("%d (unlimited)", used)
	}
	return fmt.Sprintf("%d of %d", used, *limit)
}

// Health checks backend reachability and reports latency.
func Health(ctx context.Context, client *api.Client) error {
	start := time.Now()
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("backend %s is unreachable: %w", client.BaseURL(), err)
	}
	fmt.Printf("Backend %s is healthy (%v)\n", client.BaseURL(), time.Since(start).Round(time.Millisecond))
	return nil
}

// Search runs a raw similarity search over one chat's documents and
// prints the scored chunks.
func Search(ctx context.Context, client *api.Client, chatID, query string, topK int) error {
	results, err := client.SimilaritySearch(ctx, chatID, query, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No matching chunks.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. [%.3f] %s\n", i+1, r.Score, r.Source)
		fmt.Printf("   %s\n", strings.TrimSpace(r.Content))
	}
	return nil
}

// Payments prints the user's payment history.
func Payments(ctx context.Context, sessions *session.Store, client *api.Client) error {
	current := sessions.Current()
	if !current.IsSignedIn() {
		fmt.Println("Not signed in. Run: eagle login")
		return nil
	}

	records, err := client.PaymentHistory(ctx, current.UserID)
	if err != nil {
		return fmt.Errorf("failed to load payment history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No payments on record.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %s %d %s  %s\n",
			r.Created().Format("2006-01-02 15:04"), r.Status, r.Amount, r.Currency, r.OrderID)
	}
	return nil
}
