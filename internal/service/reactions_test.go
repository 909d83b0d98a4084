package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slightknack/aeromessage/internal/domain"
)

func TestResolveTargetGUID(t *testing.T) {
	tests := []struct {
		name       string
		associated string
		want       string
		ok         bool
	}{
		{"participant indexed", "p:0/ABC-123", "ABC-123", true},
		{"participant index ignored", "p:7/ABC-123", "ABC-123", true},
		{"bare participant", "bp:ABC-123", "ABC-123", true},
		{"raw guid", "ABC-123", "ABC-123", true},
		{"malformed participant form", "p:0", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveTargetGUID(tt.associated)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestApplyReactions(t *testing.T) {
	sender := "+15551234567"
	messages := []domain.Message{
		{GUID: "guid-1"},
		{GUID: "guid-2"},
	}
	annotations := []*domain.AnnotationRecord{
		{AssociatedGUID: "p:0/guid-2", Code: 2001, IsFromMe: false, Sender: &sender},
		{AssociatedGUID: "bp:guid-1", Code: 2000, IsFromMe: true},
		{AssociatedGUID: "guid-2", Code: 2003},
		{AssociatedGUID: "p:0/guid-2", Code: 1000},       // unrecognized code
		{AssociatedGUID: "p:0/guid-unknown", Code: 2001}, // unknown target
		{AssociatedGUID: "p:0", Code: 2001},              // malformed reference
	}

	ApplyReactions(messages, annotations)

	assert.Len(t, messages[0].Reactions, 1)
	assert.Equal(t, "❤️", messages[0].Reactions[0].Symbol)
	assert.True(t, messages[0].Reactions[0].IsFromMe)

	// Row order is preserved within a message.
	assert.Len(t, messages[1].Reactions, 2)
	assert.Equal(t, "\U0001F44D", messages[1].Reactions[0].Symbol)
	assert.Equal(t, &sender, messages[1].Reactions[0].Sender)
	assert.Equal(t, "\U0001F602", messages[1].Reactions[1].Symbol)
}

func TestApplyReactionsEmpty(t *testing.T) {
	// No messages and no annotations are both no-ops.
	ApplyReactions(nil, []*domain.AnnotationRecord{{AssociatedGUID: "x", Code: 2000}})

	messages := []domain.Message{{GUID: "guid-1"}}
	ApplyReactions(messages, nil)
	assert.Empty(t, messages[0].Reactions)
}

func TestApplyReactionsDuplicatesKept(t *testing.T) {
	// Storage-level duplicates stay; summaries deduplicate at display time.
	messages := []domain.Message{{GUID: "guid-1"}}
	annotations := []*domain.AnnotationRecord{
		{AssociatedGUID: "bp:guid-1", Code: 2000},
		{AssociatedGUID: "p:0/guid-1", Code: 2001},
		{AssociatedGUID: "p:1/guid-1", Code: 2000},
	}

	ApplyReactions(messages, annotations)

	assert.Len(t, messages[0].Reactions, 3)
	assert.Equal(t, "❤️\U0001F44D", messages[0].ReactionSummary())
}
