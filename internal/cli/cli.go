// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI commands of eagle-tui: account
// login/logout, status and health checks, similarity search and payment
// history. Everything conversational lives in the TUI.
package cli

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdHealth
	CmdSearch
	CmdPayments
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Query is the free-text argument of the search command.
	Query string

	// ChatID scopes the search command to one chat.
	ChatID string

	// TopK is the search result count.
	TopK int

	// Raw holds the remaining arguments after the command word.
	Raw []string
}

const usageText = `eagle - terminal client for LegalEagle

Usage:
  eagle                       Start the TUI (default)
  eagle login                 Sign in and store the session
  eagle logout                Sign out and clear the stored session
  eagle status                Show account, plan and usage
  eagle health                Check backend reachability
  eagle search <query>        Similarity search over a chat's documents
      --chat <id>             Chat to search in (required)
      --top-k <n>             Number of results (default 5)
  eagle payments              Show payment history
  eagle version               Show version information
  eagle help                  Show this help

Configuration lives at ~/.eagle/config.toml; EAGLE_BACKEND_URL,
EAGLE_TIMEOUT_SECS and EAGLE_THEME override it.`

// Parse interprets the command line. argv excludes the program name.
func Parse(argv []string) (*Args, error) {
	args := &Args{TopK: 5}
	if len(argv) == 0 {
		args.Command = CmdTUI
		return args, nil
	}

	cmd := strings.ToLower(argv[0])
	rest := argv[1:]
	args.Raw = rest

	switch cmd {
	case "login":
		args.Command = CmdLogin
	case "logout":
		args.Command = CmdLogout
	case "status", "s":
		args.Command = CmdStatus
	case "health":
		args.Command = CmdHealth
	case "payments":
		args.Command = CmdPayments
	case "version", "-v", "--version":
		args.Command = CmdVersion
	case "help", "-h", "--help":
		args.Command = CmdHelp
	case "search":
		args.Command = CmdSearch
		if err := parseSearchArgs(args, rest); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown command %q\n\n%s", argv[0], usageText)
	}
	return args, nil
}

func parseSearchArgs(args *Args, rest []string) error {
	var words []string
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--chat":
			if i+1 >= len(rest) {
				return fmt.Errorf("--chat requires a value")
			}
			i++
			args.ChatID = rest[i]
		case "--top-k":
			if i+1 >= len(rest) {
				return fmt.Errorf("--top-k requires a value")
			}
			i++
			n := 0
			if _, err := fmt.Sscanf(rest[i], "%d", &n); err != nil || n <= 0 {
				return fmt.Errorf("invalid --top-k value %q", rest[i])
			}
			args.TopK = n
		default:
			words = append(words, rest[i])
		}
	}

	args.Query = strings.Join(words, " ")
	if args.Query == "" {
		return fmt.Errorf("search requires a query\nUsage: eagle search --chat <id> <query>")
	}
	if args.ChatID == "" {
		return fmt.Errorf("search requires --chat <id>")
	}
	return nil
}

// Usage returns the help text.
func Usage() string {
	return usageText
}

// VersionString returns the full version line.
func VersionString() string {
	return fmt.Sprintf("eagle %s (%s, built %s, %s %s/%s)",
		Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
