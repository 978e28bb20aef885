// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/legaleagle/eagle-tui/internal/api"
	"github.com/legaleagle/eagle-tui/internal/session"
)

// Login prompts for account details and persists the session. The
// backend identifies users by an external auth provider id; the client
// only stores the id and bearer token, it never performs the provider's
// token exchange itself.
func Login(ctx context.Context, sessions *session.Store, client *api.Client) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	userID, err := promptRequired(line, "User ID: ")
	if err != nil {
		return err
	}
	displayName, err := line.Prompt("Display name (optional): ")
	if err != nil {
		return fmt.Errorf("login aborted: %w", err)
	}
	email, err := line.Prompt("Email (optional): ")
	if err != nil {
		return fmt.Errorf("login aborted: %w", err)
	}

	token, err := readToken()
	if err != nil {
		return err
	}

	sess := session.Session{
		UserID:      userID,
		DisplayName: strings.TrimSpace(displayName),
		Email:       strings.TrimSpace(email),
		AccessToken: token,
	}
	if err := sessions.SignIn(sess); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	// Confirm the credentials actually work before reporting success.
	client.SetToken(token)
	if err := client.Health(ctx); err != nil {
		fmt.Printf("Signed in as %s, but the backend is not reachable: %v\n", userID, err)
		return nil
	}

	fmt.Printf("Signed in as %s\n", userID)
	return nil
}

// Logout clears the stored session. Already signed out is not an error.
func Logout(sessions *session.Store) error {
	current := sessions.Current()
	if err := sessions.SignOut(); err != nil {
		return err
	}
	if current.IsSignedIn() {
		fmt.Printf("Signed out %s\n", current.UserID)
	} else {
		fmt.Println("Not signed in")
	}
	return nil
}

func promptRequired(line *liner.State, prompt string) (string, error) {
	for {
		value, err := line.Prompt(prompt)
		if err != nil {
			return "", fmt.Errorf("login aborted: %w", err)
		}
		if v := strings.TrimSpace(value); v != "" {
			return v, nil
		}
		fmt.Println("This field is required.")
	}
}

// readToken reads the access token without echoing it.
func readToken() (string, error) {
	fmt.Print("Access token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("access token cannot be empty")
	}
	return token, nil
}
