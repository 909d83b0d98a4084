package domain

import (
	"strings"
	"time"
)

// Chat style discriminator values used by the message store.
const (
	ChatStyleGroup  = 43
	ChatStyleDirect = 45
)

// objectReplacementChar is inserted by the store where an attachment sits
// inline in the message text.
const objectReplacementChar = "￼"

// ReactionCodes lists the tapback type codes recognized as reactions. Rows
// with any other associated_message_type are ignored.
var ReactionCodes = []int{2000, 2001, 2002, 2003, 2004, 2005, 2006}

var reactionSymbols = map[int]string{
	2000: "❤️", // loved
	2001: "\U0001F44D",   // liked
	2002: "\U0001F44E",   // disliked
	2003: "\U0001F602",   // laughed
	2004: "‼️", // emphasized
	2005: "❓",       // questioned
	2006: "\U0001FAF6",   // heart hands
}

// ReactionSymbol returns the display symbol for a tapback code, or false if
// the code is not a recognized reaction type.
func ReactionSymbol(code int) (string, bool) {
	s, ok := reactionSymbols[code]
	return s, ok
}

// Attachment is a file attached to a message.
type Attachment struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	TransferName string `json:"transfer_name"`
}

// IsImage reports whether the attachment is an image.
func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}

// URLPath returns the serving path for this attachment, relative to the
// attachments root. Returns false for attachments stored elsewhere.
func (a *Attachment) URLPath() (string, bool) {
	const prefix = "~/Library/Messages/Attachments/"
	if !strings.HasPrefix(a.Filename, prefix) {
		return "", false
	}
	return "/attachment/" + a.Filename[len(prefix):], true
}

// Reaction is a tapback attached to a message.
type Reaction struct {
	Symbol   string  `json:"symbol"`
	IsFromMe bool    `json:"is_from_me"`
	Sender   *string `json:"sender,omitempty"`
}

// Message is a single message in a conversation.
type Message struct {
	RowID       int64        `json:"rowid"`
	GUID        string       `json:"guid"`
	Text        string       `json:"text"`
	Date        time.Time    `json:"date"`
	IsFromMe    bool         `json:"is_from_me"`
	Sender      *string      `json:"sender,omitempty"`
	Attachments []Attachment `json:"attachments"`
	Reactions   []Reaction   `json:"reactions"`
}

// DisplayText returns the message text with object-replacement placeholders
// removed and surrounding whitespace trimmed.
func (m *Message) DisplayText() string {
	return strings.TrimSpace(strings.ReplaceAll(m.Text, objectReplacementChar, ""))
}

// IsImageOnly reports whether the message carries an image attachment and no
// displayable text.
func (m *Message) IsImageOnly() bool {
	if m.DisplayText() != "" {
		return false
	}
	for i := range m.Attachments {
		if m.Attachments[i].IsImage() {
			return true
		}
	}
	return false
}

// ReactionSummary returns the message's reaction symbols joined, deduplicated
// by symbol in first-seen order.
func (m *Message) ReactionSummary() string {
	var seen []string
	for _, r := range m.Reactions {
		dup := false
		for _, s := range seen {
			if s == r.Symbol {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, r.Symbol)
		}
	}
	return strings.Join(seen, "")
}

// Conversation is a chat with its assembled messages.
type Conversation struct {
	ChatID          int64     `json:"chat_id"`
	DisplayName     *string   `json:"display_name"`
	ChatIdentifier  string    `json:"chat_identifier"`
	Style           int       `json:"style"`
	UnreadCount     int64     `json:"unread_count"`
	LastMessageDate time.Time `json:"last_message_date"`
	Messages        []Message `json:"messages"`
	Participants    []string  `json:"participants"`
	ResolvedName    *string   `json:"resolved_name,omitempty"`
}

// IsGroup reports whether this is a group conversation.
func (c *Conversation) IsGroup() bool {
	return c.Style == ChatStyleGroup
}

// Name returns the best display name: the stored display name if non-empty,
// then the resolved contact name, then the raw chat identifier.
func (c *Conversation) Name() string {
	if c.DisplayName != nil && *c.DisplayName != "" {
		return *c.DisplayName
	}
	if c.ResolvedName != nil {
		return *c.ResolvedName
	}
	return c.ChatIdentifier
}

// MessagesURL returns a deep link that opens this conversation in Messages.app.
func (c *Conversation) MessagesURL() string {
	if c.IsGroup() {
		return "imessage://?groupID=" + c.ChatIdentifier
	}
	return "imessage://" + c.ChatIdentifier
}

// MessageRecord is a raw message row as read from the store, before text
// derivation and retention filtering.
type MessageRecord struct {
	RowID          int64
	GUID           string
	Text           *string
	AttributedBody []byte
	Date           time.Time
	IsFromMe       bool
	HasAttachments bool
	Sender         *string
}

// AnnotationRecord is a raw tapback row. AssociatedGUID references the target
// message indirectly, in one of the encoded forms decoded by the reaction
// resolver.
type AnnotationRecord struct {
	AssociatedGUID string
	Code           int
	IsFromMe       bool
	Sender         *string
}
