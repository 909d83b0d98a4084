package chatdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/slightknack/aeromessage/internal/appletime"
	"github.com/slightknack/aeromessage/internal/domain"
)

// Store issues read-only queries against an open Messages database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ domain.ConversationStore = (*Store)(nil)

// UnreadConversations returns conversations with at least one unread,
// not-from-self, finished normal message, excluding filtered chats, ordered
// by most recent qualifying message timestamp descending.
func (s *Store) UnreadConversations(ctx context.Context) ([]*domain.Conversation, error) {
	query := `
		SELECT
			c.ROWID AS chat_id,
			c.display_name,
			c.chat_identifier,
			c.style,
			COUNT(*) AS unread_count,
			MAX(m.date) AS last_message_date
		FROM chat c
		JOIN chat_message_join cmj ON c.ROWID = cmj.chat_id
		JOIN message m ON cmj.message_id = m.ROWID
		WHERE m.is_read = 0
		  AND m.is_from_me = 0
		  AND m.item_type = 0
		  AND m.is_finished = 1
		  AND c.is_filtered != 2
		GROUP BY c.ROWID
		ORDER BY last_message_date DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query unread conversations: %w", err)
	}
	defer rows.Close()

	var res []*domain.Conversation
	for rows.Next() {
		c := &domain.Conversation{}
		var lastDate int64
		if err := rows.Scan(
			&c.ChatID,
			&c.DisplayName,
			&c.ChatIdentifier,
			&c.Style,
			&c.UnreadCount,
			&lastDate,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.LastMessageDate = appletime.ToTime(lastDate)
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return res, nil
}

// Participants returns the handle identifiers joined to a chat.
func (s *Store) Participants(ctx context.Context, chatID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id FROM handle h
		JOIN chat_handle_join chj ON h.ROWID = chj.handle_id
		WHERE chj.chat_id = ?
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		res = append(res, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return res, nil
}

// MessageRecords returns up to limit of the chat's most recent normal,
// non-tapback message rows, newest first.
func (s *Store) MessageRecords(ctx context.Context, chatID int64, limit int) ([]*domain.MessageRecord, error) {
	query := `
		SELECT
			m.ROWID,
			m.guid,
			m.text,
			m.attributedBody,
			m.date,
			m.is_from_me,
			m.cache_has_attachments,
			h.id AS sender
		FROM message m
		JOIN chat_message_join cmj ON m.ROWID = cmj.message_id
		LEFT JOIN handle h ON m.handle_id = h.ROWID
		WHERE cmj.chat_id = ?
		  AND m.item_type = 0
		  AND m.associated_message_type = 0
		ORDER BY m.date DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.MessageRecord
	for rows.Next() {
		rec := &domain.MessageRecord{}
		var date int64
		if err := rows.Scan(
			&rec.RowID,
			&rec.GUID,
			&rec.Text,
			&rec.AttributedBody,
			&date,
			&rec.IsFromMe,
			&rec.HasAttachments,
			&rec.Sender,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		rec.Date = appletime.ToTime(date)
		res = append(res, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return res, nil
}

// Attachments returns the attachments of a message. Rows with an empty
// filename are dropped.
func (s *Store) Attachments(ctx context.Context, messageRowID int64) ([]domain.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.filename, a.mime_type, a.transfer_name
		FROM attachment a
		JOIN message_attachment_join maj ON a.ROWID = maj.attachment_id
		WHERE maj.message_id = ?
	`, messageRowID)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var res []domain.Attachment
	for rows.Next() {
		var filename, mimeType, transferName sql.NullString
		if err := rows.Scan(&filename, &mimeType, &transferName); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		if filename.String == "" {
			continue
		}
		res = append(res, domain.Attachment{
			Filename:     filename.String,
			MimeType:     mimeType.String,
			TransferName: transferName.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return res, nil
}

// Annotations returns tapback rows targeting any of the given message GUIDs.
// The store references targets indirectly, so the query matches all candidate
// encoded forms of each GUID and restricts to the recognized reaction codes.
func (s *Store) Annotations(ctx context.Context, guids []string) ([]*domain.AnnotationRecord, error) {
	candidates := CandidateGUIDs(guids)
	if len(candidates) == 0 {
		return nil, nil
	}

	guidPlaceholders := strings.TrimSuffix(strings.Repeat("?,", len(candidates)), ",")
	codePlaceholders := strings.TrimSuffix(strings.Repeat("?,", len(domain.ReactionCodes)), ",")
	query := fmt.Sprintf(`
		SELECT m.associated_message_guid, m.associated_message_type, m.is_from_me, h.id
		FROM message m
		LEFT JOIN handle h ON m.handle_id = h.ROWID
		WHERE m.associated_message_guid IN (%s)
		  AND m.associated_message_type IN (%s)
	`, guidPlaceholders, codePlaceholders)

	args := make([]any, 0, len(candidates)+len(domain.ReactionCodes))
	for _, c := range candidates {
		args = append(args, c)
	}
	for _, code := range domain.ReactionCodes {
		args = append(args, code)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	var res []*domain.AnnotationRecord
	for rows.Next() {
		rec := &domain.AnnotationRecord{}
		if err := rows.Scan(&rec.AssociatedGUID, &rec.Code, &rec.IsFromMe, &rec.Sender); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		res = append(res, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}
	return res, nil
}

// CandidateGUIDs expands target GUIDs into the encoded forms annotation rows
// reference them by: participant-indexed ("p:0/", "p:1/") and bare
// participant ("bp:").
func CandidateGUIDs(guids []string) []string {
	res := make([]string, 0, len(guids)*3)
	for _, guid := range guids {
		res = append(res, "p:0/"+guid, "p:1/"+guid, "bp:"+guid)
	}
	return res
}
