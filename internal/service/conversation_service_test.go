package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/slightknack/aeromessage/internal/contacts"
	"github.com/slightknack/aeromessage/internal/domain"
	"github.com/slightknack/aeromessage/internal/service"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) UnreadConversations(ctx context.Context) ([]*domain.Conversation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *MockStore) Participants(ctx context.Context, chatID int64) ([]string, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) MessageRecords(ctx context.Context, chatID int64, limit int) ([]*domain.MessageRecord, error) {
	args := m.Called(ctx, chatID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MessageRecord), args.Error(1)
}

func (m *MockStore) Attachments(ctx context.Context, messageRowID int64) ([]domain.Attachment, error) {
	args := m.Called(ctx, messageRowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attachment), args.Error(1)
}

func (m *MockStore) Annotations(ctx context.Context, guids []string) ([]*domain.AnnotationRecord, error) {
	args := m.Called(ctx, guids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AnnotationRecord), args.Error(1)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func factoryFor(store *MockStore) service.StoreFactory {
	return func() (domain.ConversationStore, io.Closer, error) {
		return store, nopCloser{}, nil
	}
}

func strptr(s string) *string { return &s }

// nsStringBlob builds a minimal attributedBody blob embedding the given text.
func nsStringBlob(text string) []byte {
	blob := []byte("NSString")
	blob = append(blob, 0, 0, 0, 0, 0)
	blob = append(blob, byte(len(text)))
	return append(blob, text...)
}

func TestUnreadConversationsAssembly(t *testing.T) {
	store := new(MockStore)
	resolver := contacts.NewResolver()
	resolver.Add("+15551234567", "Jane Doe")
	resolver.Add("+15559876543", "Bob Smith")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	conv := &domain.Conversation{
		ChatID:          1,
		ChatIdentifier:  "chat123",
		Style:           domain.ChatStyleGroup,
		UnreadCount:     2,
		LastMessageDate: base.Add(time.Minute),
	}

	store.On("UnreadConversations", mock.Anything).Return([]*domain.Conversation{conv}, nil)
	store.On("Participants", mock.Anything, int64(1)).
		Return([]string{"+15551234567", "+15559876543"}, nil)

	// Rows arrive newest first.
	records := []*domain.MessageRecord{
		{
			RowID:    11,
			GUID:     "guid-2",
			Text:     strptr("second"),
			Date:     base.Add(time.Minute),
			Sender:   strptr("+15559876543"),
			IsFromMe: false,
		},
		{
			RowID:    10,
			GUID:     "guid-1",
			Text:     strptr("first"),
			Date:     base,
			Sender:   strptr("+15551234567"),
			IsFromMe: false,
		},
	}
	store.On("MessageRecords", mock.Anything, int64(1), 15).Return(records, nil)
	store.On("Annotations", mock.Anything, []string{"guid-2", "guid-1"}).
		Return([]*domain.AnnotationRecord{
			{AssociatedGUID: "p:0/guid-2", Code: 2001, IsFromMe: true},
		}, nil)

	svc := service.NewConversationService(factoryFor(store), resolver, 0)
	convs, err := svc.UnreadConversations(context.Background())

	assert.NoError(t, err)
	assert.Len(t, convs, 1)

	got := convs[0]
	assert.Len(t, got.Messages, 2)
	// Chronological order after reversal.
	assert.Equal(t, "first", got.Messages[0].Text)
	assert.Equal(t, "second", got.Messages[1].Text)
	// The annotation landed on the second message with the liked symbol.
	assert.Empty(t, got.Messages[0].Reactions)
	assert.Len(t, got.Messages[1].Reactions, 1)
	assert.Equal(t, "\U0001F44D", got.Messages[1].Reactions[0].Symbol)
	// Group name resolved from participant first names.
	assert.NotNil(t, got.ResolvedName)
	assert.Equal(t, "Jane, Bob", *got.ResolvedName)

	store.AssertExpectations(t)
}

func TestRetentionDropsPlaceholderOnly(t *testing.T) {
	store := new(MockStore)
	conv := &domain.Conversation{ChatID: 2, ChatIdentifier: "+15551234567", Style: domain.ChatStyleDirect}

	store.On("UnreadConversations", mock.Anything).Return([]*domain.Conversation{conv}, nil)
	records := []*domain.MessageRecord{
		{RowID: 21, GUID: "guid-img", Text: strptr("￼"), HasAttachments: true},
		{RowID: 20, GUID: "guid-empty", Text: strptr("￼")},
	}
	store.On("MessageRecords", mock.Anything, int64(2), 15).Return(records, nil)
	store.On("Attachments", mock.Anything, int64(21)).Return([]domain.Attachment{
		{Filename: "/path/photo.heic", MimeType: "image/heic", TransferName: "photo.heic"},
	}, nil)
	store.On("Annotations", mock.Anything, []string{"guid-img"}).
		Return([]*domain.AnnotationRecord{}, nil)

	svc := service.NewConversationService(factoryFor(store), contacts.NewResolver(), 0)
	convs, err := svc.UnreadConversations(context.Background())

	assert.NoError(t, err)
	assert.Len(t, convs[0].Messages, 1)
	assert.Equal(t, "guid-img", convs[0].Messages[0].GUID)
	assert.True(t, convs[0].Messages[0].IsImageOnly())

	store.AssertExpectations(t)
}

func TestTextDerivationFallsBackToBlob(t *testing.T) {
	store := new(MockStore)
	conv := &domain.Conversation{ChatID: 3, ChatIdentifier: "+15551234567", Style: domain.ChatStyleDirect}

	store.On("UnreadConversations", mock.Anything).Return([]*domain.Conversation{conv}, nil)
	records := []*domain.MessageRecord{
		{RowID: 31, GUID: "guid-blob", AttributedBody: nsStringBlob("Hello from blob")},
		{RowID: 30, GUID: "guid-bad", AttributedBody: []byte("garbage")},
	}
	store.On("MessageRecords", mock.Anything, int64(3), 15).Return(records, nil)
	store.On("Annotations", mock.Anything, []string{"guid-blob"}).
		Return([]*domain.AnnotationRecord{}, nil)

	svc := service.NewConversationService(factoryFor(store), contacts.NewResolver(), 0)
	convs, err := svc.UnreadConversations(context.Background())

	assert.NoError(t, err)
	// The undecodable blob degrades to empty text and is dropped; the good
	// one survives with the decoded payload.
	assert.Len(t, convs[0].Messages, 1)
	assert.Equal(t, "Hello from blob", convs[0].Messages[0].Text)

	store.AssertExpectations(t)
}

func TestDirectConversationNameResolution(t *testing.T) {
	store := new(MockStore)
	resolver := contacts.NewResolver()
	resolver.Add("5551234567", "Jane Doe")

	conv := &domain.Conversation{ChatID: 4, ChatIdentifier: "+15551234567", Style: domain.ChatStyleDirect}
	store.On("UnreadConversations", mock.Anything).Return([]*domain.Conversation{conv}, nil)
	store.On("MessageRecords", mock.Anything, int64(4), 15).Return([]*domain.MessageRecord{}, nil)

	svc := service.NewConversationService(factoryFor(store), resolver, 0)
	convs, err := svc.UnreadConversations(context.Background())

	assert.NoError(t, err)
	// Resolved through the country-code-stripped fallback; full name kept
	// for direct chats. Participants stay empty for direct conversations.
	assert.NotNil(t, convs[0].ResolvedName)
	assert.Equal(t, "Jane Doe", *convs[0].ResolvedName)
	assert.Empty(t, convs[0].Participants)
	assert.Equal(t, "Jane Doe", convs[0].Name())

	store.AssertExpectations(t)
}

func TestStoredDisplayNameSkipsResolution(t *testing.T) {
	store := new(MockStore)
	resolver := contacts.NewResolver()
	resolver.Add("+15551234567", "Jane Doe")

	name := "Work Chat"
	conv := &domain.Conversation{ChatID: 5, DisplayName: &name, ChatIdentifier: "+15551234567", Style: domain.ChatStyleDirect}
	store.On("UnreadConversations", mock.Anything).Return([]*domain.Conversation{conv}, nil)
	store.On("MessageRecords", mock.Anything, int64(5), 15).Return([]*domain.MessageRecord{}, nil)

	svc := service.NewConversationService(factoryFor(store), resolver, 0)
	convs, err := svc.UnreadConversations(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, convs[0].ResolvedName)
	assert.Equal(t, "Work Chat", convs[0].Name())
}

func TestStoreOpenFailurePropagates(t *testing.T) {
	svc := service.NewConversationService(func() (domain.ConversationStore, io.Closer, error) {
		return nil, nil, domain.ErrStoreNotFound
	}, contacts.NewResolver(), 0)

	_, err := svc.UnreadConversations(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreNotFound)
}
