package domain

import (
	"context"
)

// ConversationStore defines the read-only query surface over the message
// store. Implementations must never mutate the store.
type ConversationStore interface {
	// UnreadConversations returns conversations having at least one unread,
	// not-from-self, finished message, ordered by most recent qualifying
	// message timestamp descending. Messages and participants are not loaded.
	UnreadConversations(ctx context.Context) ([]*Conversation, error)

	// Participants returns the participant identifiers of a chat.
	Participants(ctx context.Context, chatID int64) ([]string, error)

	// MessageRecords returns up to limit of the chat's most recent normal,
	// non-tapback message rows, newest first.
	MessageRecords(ctx context.Context, chatID int64, limit int) ([]*MessageRecord, error)

	// Attachments returns the attachments of a message, dropping rows with an
	// empty filename.
	Attachments(ctx context.Context, messageRowID int64) ([]Attachment, error)

	// Annotations returns raw tapback rows targeting any of the given message
	// GUIDs, restricted to the recognized reaction codes.
	Annotations(ctx context.Context, guids []string) ([]*AnnotationRecord, error)
}
