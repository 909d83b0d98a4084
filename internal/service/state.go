package service

import "sync"

// ReplyState holds the session's in-flight reply work: per-chat drafts,
// committed replies awaiting the batch send, chats deferred for later, and
// identifiers the operator has chosen to ignore. It lives for the hosting
// session and is safe for concurrent use.
type ReplyState struct {
	mu        sync.Mutex
	drafts    map[int64]string
	committed map[int64]string
	later     map[int64]struct{}
	ignored   map[string]struct{}
}

func NewReplyState() *ReplyState {
	return &ReplyState{
		drafts:    make(map[int64]string),
		committed: make(map[int64]string),
		later:     make(map[int64]struct{}),
		ignored:   make(map[string]struct{}),
	}
}

// DraftStatus reports what happened to a saved draft.
type DraftStatus string

const (
	DraftStatusEmpty DraftStatus = "empty"
	DraftStatusSaved DraftStatus = "draft"
)

// SaveDraft stores draft text for a chat, un-committing any committed reply
// for it. Empty text clears the draft.
func (s *ReplyState) SaveDraft(chatID int64, text string) DraftStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.committed, chatID)
	if text == "" {
		delete(s.drafts, chatID)
		return DraftStatusEmpty
	}
	s.drafts[chatID] = text
	return DraftStatusSaved
}

// Commit marks a reply as ready to send, replacing any draft for the chat.
func (s *ReplyState) Commit(chatID int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, chatID)
	s.committed[chatID] = text
}

// ToggleLater flips the chat's deferred flag. Deferring discards any draft or
// committed reply. Returns the new flag value.
func (s *ReplyState) ToggleLater(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.later[chatID]; ok {
		delete(s.later, chatID)
		return false
	}
	s.later[chatID] = struct{}{}
	delete(s.drafts, chatID)
	delete(s.committed, chatID)
	return true
}

// ToggleIgnore flips the ignored flag for a chat identifier and returns the
// new value.
func (s *ReplyState) ToggleIgnore(chatIdentifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ignored[chatIdentifier]; ok {
		delete(s.ignored, chatIdentifier)
		return false
	}
	s.ignored[chatIdentifier] = struct{}{}
	return true
}

// DrainCommitted removes and returns all committed replies.
func (s *ReplyState) DrainCommitted() map[int64]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	drained := s.committed
	s.committed = make(map[int64]string)
	return drained
}

// Snapshot is a point-in-time copy of the reply state.
type Snapshot struct {
	Drafts    map[int64]string `json:"drafts"`
	Committed map[int64]string `json:"committed"`
	Later     []int64          `json:"later"`
	Ignored   []string         `json:"ignored"`
}

// Snapshot returns a copy of the current state.
func (s *ReplyState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Drafts:    make(map[int64]string, len(s.drafts)),
		Committed: make(map[int64]string, len(s.committed)),
		Later:     make([]int64, 0, len(s.later)),
		Ignored:   make([]string, 0, len(s.ignored)),
	}
	for k, v := range s.drafts {
		snap.Drafts[k] = v
	}
	for k, v := range s.committed {
		snap.Committed[k] = v
	}
	for id := range s.later {
		snap.Later = append(snap.Later, id)
	}
	for id := range s.ignored {
		snap.Ignored = append(snap.Ignored, id)
	}
	return snap
}
