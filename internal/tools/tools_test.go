// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"strings"
	"testing"
)

func TestApply_GeneralPassesThrough(t *testing.T) {
	if got := Apply(General, "what is clause 5?"); got != "what is clause 5?" {
		t.Errorf("Apply(general) = %q", got)
	}
}

func TestApply_UnknownFallsBack(t *testing.T) {
	if got := Apply("nope", "q"); got != "q" {
		t.Errorf("Apply(unknown) = %q", got)
	}
}

func TestApply_SummarizeDefaultsToWholeDocument(t *testing.T) {
	got := Apply(Summarize, "")
	if !strings.HasSuffix(got, "Focus on: the entire document") {
		t.Errorf("Apply(summarize, empty) = %q", got)
	}
}

func TestApply_EmbedsQuery(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{Summarize, "Focus on: payment terms"},
		{Clauses, "Specifically focus on: payment terms"},
		{Risks, "Pay special attention to: payment terms"},
		{Obligations, "Focus on: payment terms"},
		{Comparison, "Specifically regarding: payment terms"},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			got := Apply(tc.id, "payment terms")
			if !strings.Contains(got, tc.want) {
				t.Errorf("Apply(%s) = %q, missing %q", tc.id, got, tc.want)
			}
		})
	}
}

func TestApply_EmptyQueryOmitsFocus(t *testing.T) {
	got := Apply(Risks, "")
	if strings.Contains(got, "Pay special attention to") {
		t.Errorf("empty query should omit the focus clause: %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(General); got != "" {
		t.Errorf("Label(general) = %q, want empty", got)
	}
	if got := Label(Risks); got != "Risk Assessment" {
		t.Errorf("Label(risks) = %q", got)
	}
	if got := Label("nope"); got != "" {
		t.Errorf("Label(unknown) = %q, want empty", got)
	}
}

func TestLookup(t *testing.T) {
	tool, ok := Lookup(Summarize)
	if !ok || tool.Name != "Summarize" {
		t.Errorf("Lookup(summarize) = %+v, %v", tool, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(unknown) should fail")
	}
}

func TestAll_GeneralFirst(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("len(All) = %d", len(all))
	}
	if all[0].ID != General {
		t.Errorf("first tool = %q, want general", all[0].ID)
	}
}
