package service

import (
	"strings"

	"github.com/slightknack/aeromessage/internal/domain"
)

// resolveTargetGUID decodes the encoded reference an annotation row uses to
// point at its target message. Three forms exist: participant-indexed
// "p:<index>/<guid>" (the index is irrelevant), bare-participant "bp:<guid>",
// and the raw GUID itself. A "p:" form without a slash is malformed.
func resolveTargetGUID(associated string) (string, bool) {
	if strings.HasPrefix(associated, "p:") {
		_, guid, found := strings.Cut(associated, "/")
		if !found {
			return "", false
		}
		return guid, true
	}
	if strings.HasPrefix(associated, "bp:") {
		return associated[len("bp:"):], true
	}
	return associated, true
}

// ApplyReactions resolves each annotation row to its target message and
// appends a Reaction, preserving row order. Malformed references, unknown
// targets, and unrecognized codes are skipped without aborting the batch.
func ApplyReactions(messages []domain.Message, annotations []*domain.AnnotationRecord) {
	if len(messages) == 0 || len(annotations) == 0 {
		return
	}

	index := make(map[string]int, len(messages))
	for i := range messages {
		index[messages[i].GUID] = i
	}

	for _, rec := range annotations {
		target, ok := resolveTargetGUID(rec.AssociatedGUID)
		if !ok {
			continue
		}
		i, ok := index[target]
		if !ok {
			continue
		}
		symbol, ok := domain.ReactionSymbol(rec.Code)
		if !ok {
			continue
		}
		messages[i].Reactions = append(messages[i].Reactions, domain.Reaction{
			Symbol:   symbol,
			IsFromMe: rec.IsFromMe,
			Sender:   rec.Sender,
		})
	}
}
