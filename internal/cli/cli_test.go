// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
)

func TestParse_DefaultIsTUI(t *testing.T) {
	args, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if args.Command != CmdTUI {
		t.Errorf("Command = %v, want CmdTUI", args.Command)
	}
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"login"}, CmdLogin},
		{[]string{"logout"}, CmdLogout},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"health"}, CmdHealth},
		{[]string{"payments"}, CmdPayments},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}
	for _, tt := range tests {
		args, err := Parse(tt.argv)
		if err != nil {
			t.Errorf("Parse(%v): %v", tt.argv, err)
			continue
		}
		if args.Command != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.argv, args.Command, tt.want)
		}
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	if _, err := Parse([]string{"frobnicate"}); err == nil {
		t.Fatal("unknown command should error")
	}
}

func TestParse_Search(t *testing.T) {
	args, err := Parse([]string{"search", "--chat", "c1", "--top-k", "3", "termination", "clause"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if args.Command != CmdSearch {
		t.Errorf("Command = %v, want CmdSearch", args.Command)
	}
	if args.ChatID != "c1" {
		t.Errorf("ChatID = %q", args.ChatID)
	}
	if args.TopK != 3 {
		t.Errorf("TopK = %d", args.TopK)
	}
	if args.Query != "termination clause" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParse_SearchRequiresChatAndQuery(t *testing.T) {
	if _, err := Parse([]string{"search", "--chat", "c1"}); err == nil {
		t.Error("search without a query should error")
	}
	if _, err := Parse([]string{"search", "hello"}); err == nil {
		t.Error("search without --chat should error")
	}
	if _, err := Parse([]string{"search", "--chat", "c1", "--top-k", "zero", "q"}); err == nil {
		t.Error("non-numeric --top-k should error")
	}
}

func TestVersionString(t *testing.T) {
	if !strings.Contains(VersionString(), Version) {
		t.Errorf("VersionString() = %q", VersionString())
	}
}
