// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/legaleagle/eagle-tui/internal/api"
	"github.com/legaleagle/eagle-tui/internal/model"
	"github.com/legaleagle/eagle-tui/internal/tools"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeBackend struct {
	mu          sync.Mutex
	askQueries  []string
	askErr      error
	answer      *api.Answer
	uploadErr   error
	uploadCalls int
	// blockAsk, when non-nil, holds Ask until closed.
	blockAsk chan struct{}
}

func (f *fakeBackend) Ask(ctx context.Context, chatID, query string, useContext bool) (*api.Answer, error) {
	f.mu.Lock()
	f.askQueries = append(f.askQueries, query)
	block := f.blockAsk
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.askErr != nil {
		return nil, f.askErr
	}
	answer := *f.answer
	answer.ChatID = chatID
	return &answer, nil
}

func (f *fakeBackend) UploadDocument(ctx context.Context, chatID, filename string, content io.Reader) (*api.UploadResult, error) {
	f.mu.Lock()
	f.uploadCalls++
	f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &api.UploadResult{Status: "success", DocumentID: "d1", Filename: filename, Chunks: 4}, nil
}

func (f *fakeBackend) UploadText(ctx context.Context, chatID, text, sourceName string) (*api.UploadResult, error) {
	f.mu.Lock()
	f.uploadCalls++
	f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &api.UploadResult{Status: "success", DocumentID: "d2", Filename: sourceName, Chunks: 1}, nil
}

func (f *fakeBackend) askCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.askQueries)
}

type fakeUsage struct {
	queryErr  error
	uploadErr error
	refreshes int
}

func (u *fakeUsage) CheckQuery() error          { return u.queryErr }
func (u *fakeUsage) CheckUploadDocument() error { return u.uploadErr }
func (u *fakeUsage) Refresh(ctx context.Context, userID string) error {
	u.refreshes++
	return nil
}

type fakeRenamer struct {
	calls    []string
	failWith error
}

func (r *fakeRenamer) Rename(ctx context.Context, chatID, newTitle string) error {
	r.calls = append(r.calls, newTitle)
	return r.failWith
}

// =============================================================================
// TEST SETUP
// =============================================================================

func testLimits() UploadLimits {
	return UploadLimits{MaxBytes: 50 * 1024 * 1024, Extension: ".pdf"}
}

func newFixture() (*Controller, *fakeBackend, *fakeUsage, *fakeRenamer) {
	backend := &fakeBackend{
		answer: &api.Answer{MessageID: "m1", Content: "The clause allows termination.", Sources: []int{0}},
	}
	usage := &fakeUsage{}
	renamer := &fakeRenamer{}
	ctrl := NewController(backend, usage, renamer, testLimits())
	ctrl.Activate(&model.Chat{ID: "c1", Title: "Lease review"}, nil, nil)
	return ctrl, backend, usage, renamer
}

func messageIDs(msgs []*model.Message) []string {
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	return ids
}

// =============================================================================
// SEND
// =============================================================================

func TestSend_Success(t *testing.T) {
	ctrl, backend, usage, _ := newFixture()

	err := ctrl.Send(context.Background(), "u1", "What is the termination clause?", tools.General)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Exactly one outbound ask with the raw input (general = identity).
	if backend.askCount() != 1 || backend.askQueries[0] != "What is the termination clause?" {
		t.Errorf("ask queries = %v", backend.askQueries)
	}

	msgs := ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[0].Content != "What is the termination clause?" {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[0].ID != "user_m1" {
		t.Errorf("user message id = %q", msgs[0].ID)
	}
	if msgs[1].Role != model.RoleAssistant || msgs[1].ID != "m1" {
		t.Errorf("assistant message = %+v", msgs[1])
	}
	for _, m := range msgs {
		if model.IsTempID(m.ID) {
			t.Errorf("temporary id %q survived reconciliation", m.ID)
		}
	}
	if usage.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", usage.refreshes)
	}
}

func TestSend_ToolAugmentsQueryButNotTranscript(t *testing.T) {
	ctrl, backend, _, _ := newFixture()

	if err := ctrl.Send(context.Background(), "u1", "payment terms", tools.Risks); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if !strings.Contains(backend.askQueries[0], "risk assessment") {
		t.Errorf("outbound query not tool-augmented: %q", backend.askQueries[0])
	}
	msgs := ctrl.Messages()
	if msgs[0].Content != "payment terms" {
		t.Errorf("transcript shows augmented query: %q", msgs[0].Content)
	}
	if msgs[0].Tool != "Risk Assessment" {
		t.Errorf("Tool = %q", msgs[0].Tool)
	}
}

func TestSend_FailureRollsBackOptimisticMessage(t *testing.T) {
	ctrl, backend, _, _ := newFixture()
	ctrl.Activate(&model.Chat{ID: "c1", Title: "Lease review"}, []*model.Message{
		{ID: "m0", ChatID: "c1", Role: model.RoleUser, Content: "earlier"},
	}, nil)
	before := messageIDs(ctrl.Messages())

	backend.askErr = errors.New("backend down")
	if err := ctrl.Send(context.Background(), "u1", "hello", tools.General); err == nil {
		t.Fatal("Send should fail")
	}

	after := messageIDs(ctrl.Messages())
	if len(after) != len(before) {
		t.Fatalf("message count changed: %v -> %v", before, after)
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("id set changed after failed send: %v -> %v", before, after)
		}
	}
}

func TestSend_QuotaGateShortCircuits(t *testing.T) {
	ctrl, backend, usage, _ := newFixture()
	usage.queryErr = errors.New("You've used all your queries. Upgrade to Premium for 100 more AI queries!")

	err := ctrl.Send(context.Background(), "u1", "hello", tools.General)
	if !errors.Is(err, usage.queryErr) {
		t.Fatalf("Send = %v, want gate error", err)
	}
	if backend.askCount() != 0 {
		t.Errorf("gated send made %d network calls, want 0", backend.askCount())
	}
	if len(ctrl.Messages()) != 0 {
		t.Error("gated send must not leave an optimistic message")
	}
}

func TestSend_EmptyInputRejected(t *testing.T) {
	ctrl, backend, _, _ := newFixture()

	if err := ctrl.Send(context.Background(), "u1", "   \n ", tools.General); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Send(blank) = %v, want ErrEmptyMessage", err)
	}
	if backend.askCount() != 0 {
		t.Error("blank send must not reach the backend")
	}
}

func TestSend_NoActiveChat(t *testing.T) {
	ctrl, _, _, _ := newFixture()
	ctrl.Deactivate()

	if err := ctrl.Send(context.Background(), "u1", "hello", tools.General); !errors.Is(err, ErrNoActiveChat) {
		t.Errorf("Send = %v, want ErrNoActiveChat", err)
	}
}

func TestSend_RefusesConcurrentSendForSameChat(t *testing.T) {
	ctrl, backend, _, _ := newFixture()
	backend.blockAsk = make(chan struct{})

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- ctrl.Send(context.Background(), "u1", "first", tools.General)
	}()
	<-started
	// Wait until the first send has registered its in-flight flag.
	for !ctrl.Sending() {
		time.Sleep(time.Millisecond)
	}

	if err := ctrl.Send(context.Background(), "u1", "second", tools.General); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("concurrent Send = %v, want ErrSendInFlight", err)
	}

	close(backend.blockAsk)
	if err := <-done; err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if ctrl.Sending() {
		t.Error("in-flight flag must clear after the send completes")
	}
}

func TestSend_StaleConfirmationIsNoOp(t *testing.T) {
	ctrl, backend, _, _ := newFixture()
	backend.blockAsk = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Send(context.Background(), "u1", "hello", tools.General)
	}()
	for !ctrl.Sending() {
		time.Sleep(time.Millisecond)
	}

	// User switches chats while the send is in flight.
	ctrl.Activate(&model.Chat{ID: "c2", Title: "Other chat"}, []*model.Message{
		{ID: "x1", ChatID: "c2", Role: model.RoleUser, Content: "other"},
	}, nil)

	close(backend.blockAsk)
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}

	// The stale confirmation must not touch chat c2's transcript.
	msgs := ctrl.Messages()
	if len(msgs) != 1 || msgs[0].ChatID != "c2" {
		t.Errorf("stale send leaked into new chat: %v", messageIDs(msgs))
	}
}

// =============================================================================
// AUTO-TITLE
// =============================================================================

func TestSend_FirstMessageDerivesTitle(t *testing.T) {
	ctrl, _, _, renamer := newFixture()
	ctrl.Activate(&model.Chat{ID: "c1", Title: model.DefaultChatTitle}, nil, nil)

	input := "Please review my residential lease agreement for problems"
	if err := ctrl.Send(context.Background(), "u1", input, tools.General); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(renamer.calls) != 1 {
		t.Fatalf("rename calls = %d, want 1", len(renamer.calls))
	}
	want := model.DeriveTitle(input)
	if renamer.calls[0] != want {
		t.Errorf("derived title = %q, want %q", renamer.calls[0], want)
	}
	if !strings.HasSuffix(renamer.calls[0], "...") {
		t.Errorf("long input should be truncated with ellipsis: %q", renamer.calls[0])
	}
}

func TestSend_NonDefaultTitleSkipsRename(t *testing.T) {
	ctrl, _, _, renamer := newFixture()

	if err := ctrl.Send(context.Background(), "u1", "hello", tools.General); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(renamer.calls) != 0 {
		t.Errorf("rename called for a chat with a real title: %v", renamer.calls)
	}
}

func TestSend_AutoTitleFailureIsNonFatal(t *testing.T) {
	ctrl, _, _, renamer := newFixture()
	ctrl.Activate(&model.Chat{ID: "c1", Title: model.DefaultChatTitle}, nil, nil)
	renamer.failWith = errors.New("rename failed")

	if err := ctrl.Send(context.Background(), "u1", "hello", tools.General); err != nil {
		t.Fatalf("rename failure must not fail the send: %v", err)
	}
	if len(ctrl.Messages()) != 2 {
		t.Error("send result must survive a failed auto-title")
	}
}

// =============================================================================
// UPLOAD
// =============================================================================

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUpload_Success(t *testing.T) {
	ctrl, _, usage, _ := newFixture()
	path := writeTempFile(t, "lease.pdf", 1024)

	doc, err := ctrl.Upload(context.Background(), "u1", path)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.Filename != "lease.pdf" || doc.NumChunks != 4 {
		t.Errorf("doc = %+v", doc)
	}
	if len(ctrl.Documents()) != 1 {
		t.Error("document not appended")
	}
	if !ctrl.Chat().HasDocument {
		t.Error("chat should be flagged as having a document")
	}
	if usage.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", usage.refreshes)
	}
}

func TestUpload_WrongExtensionRejectedLocally(t *testing.T) {
	ctrl, backend, _, _ := newFixture()
	path := writeTempFile(t, "notes.txt", 64)

	_, err := ctrl.Upload(context.Background(), "u1", path)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Upload(.txt) = %v, want ValidationError", err)
	}
	if !strings.Contains(ve.Message, "PDF") {
		t.Errorf("message = %q", ve.Message)
	}
	if backend.uploadCalls != 0 {
		t.Errorf("rejected upload made %d network calls, want 0", backend.uploadCalls)
	}
}

func TestUpload_TooLargeRejectedLocally(t *testing.T) {
	backend := &fakeBackend{answer: &api.Answer{}}
	ctrl := NewController(backend, &fakeUsage{}, &fakeRenamer{}, UploadLimits{MaxBytes: 100, Extension: ".pdf"})
	ctrl.Activate(&model.Chat{ID: "c1", Title: "t"}, nil, nil)
	path := writeTempFile(t, "big.pdf", 200)

	_, err := ctrl.Upload(context.Background(), "u1", path)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Upload(oversized) = %v, want ValidationError", err)
	}
	if backend.uploadCalls != 0 {
		t.Error("oversized upload must not reach the backend")
	}
}

func TestUpload_QuotaGateShortCircuits(t *testing.T) {
	ctrl, backend, usage, _ := newFixture()
	usage.uploadErr = errors.New("upload limit reached")
	path := writeTempFile(t, "lease.pdf", 64)

	if _, err := ctrl.Upload(context.Background(), "u1", path); !errors.Is(err, usage.uploadErr) {
		t.Fatalf("Upload = %v, want gate error", err)
	}
	if backend.uploadCalls != 0 {
		t.Error("gated upload must not reach the backend")
	}
}

func TestUpload_BackendFailureLeavesListUnchanged(t *testing.T) {
	ctrl, backend, _, _ := newFixture()
	backend.uploadErr = errors.New("backend down")
	path := writeTempFile(t, "lease.pdf", 64)

	if _, err := ctrl.Upload(context.Background(), "u1", path); err == nil {
		t.Fatal("Upload should fail")
	}
	if len(ctrl.Documents()) != 0 {
		t.Error("no optimistic document entry is allowed")
	}
	if ctrl.Chat().HasDocument {
		t.Error("failed upload must not flag the chat")
	}
}

func TestUploadText(t *testing.T) {
	ctrl, _, _, _ := newFixture()

	doc, err := ctrl.UploadText(context.Background(), "u1", "some pasted clause text", "")
	if err != nil {
		t.Fatalf("UploadText: %v", err)
	}
	if doc.ID != "d2" {
		t.Errorf("doc = %+v", doc)
	}

	if _, err := ctrl.UploadText(context.Background(), "u1", "   ", ""); err == nil {
		t.Error("blank text should be rejected")
	}
}

// =============================================================================
// DOCUMENT REMOVAL
// =============================================================================

func TestRemoveDocument_LocalOnly(t *testing.T) {
	ctrl, backend, _, _ := newFixture()
	ctrl.Activate(&model.Chat{ID: "c1", Title: "t", HasDocument: true}, nil, []*model.Document{
		{ID: "d1", ChatID: "c1", Filename: "lease.pdf"},
	})

	ctrl.RemoveDocument("d1")

	if len(ctrl.Documents()) != 0 {
		t.Error("document not removed")
	}
	if ctrl.Chat().HasDocument {
		t.Error("HasDocument should clear when the last document goes")
	}
	if backend.uploadCalls != 0 || backend.askCount() != 0 {
		t.Error("RemoveDocument must not call the backend")
	}
}
