// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/legaleagle/eagle-tui/internal/api"
	"github.com/legaleagle/eagle-tui/internal/model"
)

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// The controllers hold all chat state and are safe for concurrent use,
// so commands run controller calls off the Update loop and report back
// with one of these. Update then re-reads controller state and renders.

// chatsLoadedMsg reports the result of a chat list reload.
type chatsLoadedMsg struct {
	err error
}

// statusRefreshedMsg reports the result of a usage snapshot refresh.
type statusRefreshedMsg struct {
	err error
}

// chatCreatedMsg reports the result of creating a chat.
type chatCreatedMsg struct {
	chat *model.Chat
	err  error
}

// chatSelectedMsg reports the result of switching the active chat.
type chatSelectedMsg struct {
	err error
}

// chatRenamedMsg reports the result of a rename.
type chatRenamedMsg struct {
	err error
}

// chatDeletedMsg reports the result of a delete.
type chatDeletedMsg struct {
	err error
}

// sendFinishedMsg reports the result of a message send.
type sendFinishedMsg struct {
	err error
}

// uploadFinishedMsg reports the result of a document upload.
type uploadFinishedMsg struct {
	doc *model.Document
	err error
}

// orderCreatedMsg reports the result of opening an upgrade order.
type orderCreatedMsg struct {
	order *api.PaymentOrder
	err   error
}
