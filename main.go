// eagle-tui - terminal client for the LegalEagle document Q&A backend.
//
// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/legaleagle/eagle-tui/internal/api"
	"github.com/legaleagle/eagle-tui/internal/chats"
	"github.com/legaleagle/eagle-tui/internal/cli"
	"github.com/legaleagle/eagle-tui/internal/config"
	"github.com/legaleagle/eagle-tui/internal/conversation"
	"github.com/legaleagle/eagle-tui/internal/payment"
	"github.com/legaleagle/eagle-tui/internal/quota"
	"github.com/legaleagle/eagle-tui/internal/session"
	"github.com/legaleagle/eagle-tui/internal/storage"
	"github.com/legaleagle/eagle-tui/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired-up application collaborators.
type app struct {
	cfg      *config.Config
	db       *storage.Store
	sessions *session.Store
	client   *api.Client
}

func run(args *cli.Args) error {
	switch args.Command {
	case cli.CmdVersion:
		fmt.Println(cli.VersionString())
		return nil
	case cli.CmdHelp:
		fmt.Println(cli.Usage())
		return nil
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.db.Close()

	ctx := context.Background()

	switch args.Command {
	case cli.CmdLogin:
		return cli.Login(ctx, a.sessions, a.client)
	case cli.CmdLogout:
		return cli.Logout(a.sessions)
	case cli.CmdStatus:
		return cli.Status(ctx, a.sessions, a.client)
	case cli.CmdHealth:
		return cli.Health(ctx, a.client)
	case cli.CmdSearch:
		return cli.Search(ctx, a.client, args.ChatID, args.Query, args.TopK)
	case cli.CmdPayments:
		return cli.Payments(ctx, a.sessions, a.client)
	default:
		return runTUI(a)
	}
}

// setup wires storage, session and the API client from configuration.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(filepath.Join(dir, "eagle.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	sealer, err := session.NewSealer(filepath.Join(dir, "session.key"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token sealing: %w", err)
	}

	sessions, err := session.NewStore(db, sealer)
	if err != nil {
		db.Close()
		return nil, err
	}

	client := api.NewClient(cfg.Backend.URL).
		WithTimeout(cfg.Timeout()).
		WithMaxRetries(cfg.Backend.MaxRetries)
	client.SetToken(sessions.Current().AccessToken)

	return &app{cfg: cfg, db: db, sessions: sessions, client: client}, nil
}

// renameProxy breaks the construction cycle between the conversation
// controller (which auto-titles through the chat list) and the chat
// list controller (which activates transcripts).
type renameProxy struct {
	ctrl *chats.Controller
}

func (r *renameProxy) Rename(ctx context.Context, chatID, newTitle string) error {
	return r.ctrl.Rename(ctx, chatID, newTitle)
}

func runTUI(a *app) error {
	if !a.sessions.Current().IsSignedIn() {
		return fmt.Errorf("not signed in; run: eagle login")
	}

	// The terminal owns stdout; route logs to a file.
	if logFile := openLogFile(); logFile != nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	cache := quota.NewCache(a.client)

	proxy := &renameProxy{}
	conv := conversation.NewController(a.client, cache, proxy, conversation.UploadLimits{
		MaxBytes:  a.cfg.MaxUploadBytes(),
		Extension: a.cfg.Upload.AllowedExtension,
	})
	chatCtrl := chats.NewController(a.client, cache, conv)
	proxy.ctrl = chatCtrl

	pay := payment.NewController(a.client, cache)

	// Hot-reload safe config fields while the TUI runs.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if path, err := config.Path(); err == nil {
		go func() {
			err := config.Watch(watchCtx, path, func(next *config.Config) {
				a.client.SetBaseURL(next.Backend.URL)
				log.Printf("config reloaded: backend url now %s", next.Backend.URL)
			})
			if err != nil && watchCtx.Err() == nil {
				log.Printf("config watch stopped: %v", err)
			}
		}()
	}

	m := chat.New(a.cfg, chatCtrl, conv, cache, pay, a.sessions)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openLogFile() *os.File {
	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "eagle.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil
	}
	return f
}
