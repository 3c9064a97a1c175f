// Package transport defines the platform-neutral messaging surface used by the
// rest of the bot. Concrete platforms (Telegram) implement Adapter; everything
// above it only sees these types.
package transport

import (
	"context"
	"errors"
)

// ErrRecipientNotFound is returned by ResolveRecipient when the handle has never
// opened a chat with the bot. The reminder stays due and is retried next cycle.
var ErrRecipientNotFound = errors.New("recipient not found")

// ChatTarget addresses a chat, optionally inside a forum thread/topic.
type ChatTarget struct {
	ChatID   int64
	ThreadID int
}

// MessageRef identifies a sent message.
type MessageRef struct {
	ChatID    int64
	ThreadID  int
	MessageID int
}

// SendOptions mirrors the platform knobs we actually use.
type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Field is one labeled entry of a notification payload. Inline is a layout hint
// only; adapters are free to ignore it.
type Field struct {
	Label  string
	Value  string
	Inline bool
}

// Payload is the rendering-agnostic content of one notification. All fields
// except Title may be empty; an empty Thumbnail means "no image".
type Payload struct {
	Title       string
	Description string
	Fields      []Field
	Thumbnail   string
}

// Adapter is the messaging collaborator boundary. Implementations must be safe
// for concurrent use once Start has returned.
type Adapter interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// ResolveRecipient maps a stored handle (e.g. "alice") to a deliverable
	// target. Returns ErrRecipientNotFound if the handle is unknown.
	ResolveRecipient(ctx context.Context, handle string) (ChatTarget, error)

	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
	SendPayload(ctx context.Context, to ChatTarget, p Payload) (MessageRef, error)
}
