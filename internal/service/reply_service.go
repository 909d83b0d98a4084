package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/slightknack/aeromessage/internal/store/chatdb"
)

// ReplyService executes the batch-reply flow: drain committed replies, send
// each to its conversation, and mark successfully answered chats as read.
type ReplyService struct {
	conversations *ConversationService
	state         *ReplyState
	sender        Sender
	storePath     string
}

func NewReplyService(conversations *ConversationService, state *ReplyState, sender Sender, storePath string) *ReplyService {
	return &ReplyService{
		conversations: conversations,
		state:         state,
		sender:        sender,
		storePath:     storePath,
	}
}

// SendResult reports the outcome of one send attempt.
type SendResult struct {
	ID      string `json:"id"`
	ChatID  int64  `json:"chat_id"`
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

// SendAll sends every committed reply. Committed replies whose conversation
// is no longer unread are dropped silently; a failed send is reported in its
// result but does not stop the batch.
func (s *ReplyService) SendAll(ctx context.Context) ([]SendResult, error) {
	convs, err := s.conversations.UnreadConversations(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]int, len(convs))
	for i, conv := range convs {
		byID[conv.ChatID] = i
	}

	results := []SendResult{}
	for chatID, text := range s.state.DrainCommitted() {
		i, ok := byID[chatID]
		if !ok {
			continue
		}
		conv := convs[i]

		err := s.sender.Send(ctx, conv.ChatIdentifier, text, conv.IsGroup())
		if err != nil {
			log.Printf("send to chat %d failed: %v", chatID, err)
			sendAttemptsTotal.WithLabelValues("failure").Inc()
		} else {
			sendAttemptsTotal.WithLabelValues("success").Inc()
			if _, err := chatdb.MarkRead(ctx, s.storePath, conv.ChatIdentifier); err != nil {
				log.Printf("mark read after send failed for chat %d: %v", chatID, err)
			}
		}

		results = append(results, SendResult{
			ID:      uuid.NewString(),
			ChatID:  chatID,
			Success: err == nil,
			Name:    conv.Name(),
		})
	}
	return results, nil
}

// MarkRead flips the unread flag on all unread messages of a chat and returns
// the number affected.
func (s *ReplyService) MarkRead(ctx context.Context, chatIdentifier string) (int64, error) {
	return chatdb.MarkRead(ctx, s.storePath, chatIdentifier)
}
