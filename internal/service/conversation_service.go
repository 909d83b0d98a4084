package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/slightknack/aeromessage/internal/archive"
	"github.com/slightknack/aeromessage/internal/contacts"
	"github.com/slightknack/aeromessage/internal/domain"
)

// DefaultMessageLimit is the number of recent messages loaded per
// conversation.
const DefaultMessageLimit = 15

// StoreFactory opens the conversation store for one request cycle. The
// returned closer releases the underlying connection when assembly completes.
type StoreFactory func() (domain.ConversationStore, io.Closer, error)

// ConversationService assembles fully populated conversation aggregates from
// the message store.
type ConversationService struct {
	openStore    StoreFactory
	contacts     *contacts.Resolver
	messageLimit int
}

func NewConversationService(openStore StoreFactory, resolver *contacts.Resolver, messageLimit int) *ConversationService {
	if messageLimit <= 0 {
		messageLimit = DefaultMessageLimit
	}
	return &ConversationService{
		openStore:    openStore,
		contacts:     resolver,
		messageLimit: messageLimit,
	}
}

// UnreadConversations returns every conversation with unread messages, each
// carrying its participants (groups only), its recent messages in
// chronological order with attachments and reactions attached, and a resolved
// display name where the contact cache knows one. Conversation order is by
// recency, as returned by the store.
func (s *ConversationService) UnreadConversations(ctx context.Context) ([]*domain.Conversation, error) {
	store, closer, err := s.openStore()
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	convs, err := store.UnreadConversations(ctx)
	if err != nil {
		return nil, err
	}

	for _, conv := range convs {
		if conv.IsGroup() {
			participants, err := store.Participants(ctx, conv.ChatID)
			if err != nil {
				return nil, err
			}
			conv.Participants = participants
		}
		messages, err := s.assembleMessages(ctx, store, conv.ChatID)
		if err != nil {
			return nil, fmt.Errorf("assemble chat %d: %w", conv.ChatID, err)
		}
		conv.Messages = messages
		s.resolveName(conv)
	}

	assembliesTotal.Inc()
	return convs, nil
}

// assembleMessages loads a chat's recent message rows, derives display text,
// applies the retention rule, attaches attachments and reactions, and returns
// the survivors in chronological order.
func (s *ConversationService) assembleMessages(ctx context.Context, store domain.ConversationStore, chatID int64) ([]domain.Message, error) {
	records, err := store.MessageRecords(ctx, chatID, s.messageLimit)
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	var guids []string
	for _, rec := range records {
		text := deriveText(rec)

		var attachments []domain.Attachment
		if rec.HasAttachments {
			attachments, err = store.Attachments(ctx, rec.RowID)
			if err != nil {
				return nil, err
			}
		}

		msg := domain.Message{
			RowID:       rec.RowID,
			GUID:        rec.GUID,
			Text:        text,
			Date:        rec.Date,
			IsFromMe:    rec.IsFromMe,
			Sender:      rec.Sender,
			Attachments: attachments,
		}
		// Keep only messages a reader can see something of; purely
		// structural rows are dropped.
		if msg.DisplayText() == "" && len(attachments) == 0 {
			continue
		}
		messages = append(messages, msg)
		guids = append(guids, rec.GUID)
	}

	if len(guids) > 0 {
		annotations, err := store.Annotations(ctx, guids)
		if err != nil {
			return nil, err
		}
		ApplyReactions(messages, annotations)
	}

	// Rows arrive newest first; present oldest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// deriveText prefers the row's plain text and falls back to decoding the
// attributedBody blob. Decode failure degrades to empty text; retention
// decides whether the message survives.
func deriveText(rec *domain.MessageRecord) string {
	if rec.Text != nil && *rec.Text != "" {
		return *rec.Text
	}
	if len(rec.AttributedBody) > 0 {
		if text, ok := archive.ExtractText(rec.AttributedBody); ok {
			return text
		}
		decodeFailuresTotal.Inc()
	}
	return ""
}

// resolveName fills in ResolvedName from the contact cache when the store
// has no display name: the full contact name for direct chats, joined first
// names for groups.
func (s *ConversationService) resolveName(conv *domain.Conversation) {
	if conv.DisplayName != nil && *conv.DisplayName != "" {
		return
	}
	if conv.IsGroup() {
		var names []string
		for _, p := range conv.Participants {
			if name, ok := s.contacts.Resolve(p); ok {
				// First names only; group headers get long fast.
				if fields := strings.Fields(name); len(fields) > 0 {
					name = fields[0]
				}
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			joined := strings.Join(names, ", ")
			conv.ResolvedName = &joined
		}
		return
	}
	if name, ok := s.contacts.Resolve(conv.ChatIdentifier); ok {
		conv.ResolvedName = &name
	}
}
