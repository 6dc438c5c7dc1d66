package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myshop/internal/domain/entity"
	"myshop/pkg/errors"
)

type fakeChatRepo struct {
	mu       sync.Mutex
	messages []*entity.ChatMessage
	nextID   int
	nextSeq  int64
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.nextSeq++
	message.ID = fmt.Sprintf("msg-%d", r.nextID)
	message.Seq = r.nextSeq
	now := time.Now()
	message.CreatedAt = now
	message.UpdatedAt = now

	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeChatRepo) ListByConversation(ctx context.Context, conversationKey string) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.ChatMessage
	for _, m := range r.messages {
		if m.ConversationKey == conversationKey {
			copied := *m
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Seq < result[j].Seq
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeChatRepo) GetMessageByID(ctx context.Context, messageID string) (*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages {
		if m.ID == messageID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) MarkMessageRead(ctx context.Context, messageID string) (*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages {
		if m.ID == messageID {
			if !m.Read {
				m.Read = true
				m.UpdatedAt = time.Now()
			}
			copied := *m
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) MarkAllRead(ctx context.Context, conversationKey, receiverID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, m := range r.messages {
		if m.ReceiverID != receiverID || m.Read {
			continue
		}
		if conversationKey != "" && m.ConversationKey != conversationKey {
			continue
		}
		m.Read = true
		m.UpdatedAt = time.Now()
		updated++
	}
	return updated, nil
}

func (r *fakeChatRepo) SummarizeForParticipant(ctx context.Context, participantID string) ([]*entity.ConversationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byConversation := make(map[string][]*entity.ChatMessage)
	for _, m := range r.messages {
		if m.SenderID != participantID && m.ReceiverID != participantID {
			continue
		}
		copied := *m
		byConversation[m.ConversationKey] = append(byConversation[m.ConversationKey], &copied)
	}

	var summaries []*entity.ConversationSummary
	for key, messages := range byConversation {
		summary := &entity.ConversationSummary{ConversationKey: key}
		for _, m := range messages {
			if !m.Read {
				summary.UnreadCount++
			}
			if summary.LatestMessage == nil || m.Seq > summary.LatestMessage.Seq {
				summary.LatestMessage = m
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ConversationKey < summaries[j].ConversationKey
	})
	return summaries, nil
}

func (r *fakeChatRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetDesignatedAdmin(ctx context.Context) (*entity.User, error) {
	for _, user := range r.users {
		if user.IsAdmin() {
			return user, nil
		}
	}
	return nil, errors.NotFound("Admin user", nil)
}

type push struct {
	participantID string
	message       *entity.ChatMessage
}

type fakePusher struct {
	mu     sync.Mutex
	pushes []push
}

func (p *fakePusher) PushNewMessage(participantID string, message *entity.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, push{participantID: participantID, message: message})
}

func (p *fakePusher) roomsPushed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var rooms []string
	for _, entry := range p.pushes {
		rooms = append(rooms, entry.participantID)
	}
	return rooms
}

func newChatFixture() (*ChatUseCase, *fakeChatRepo, *fakePusher) {
	chatRepo := &fakeChatRepo{}
	userRepo := &fakeUserRepo{users: map[string]*entity.User{
		"u1":      {ID: "u1", Name: "Asha", Email: "asha@example.com", Phone: "111", Role: entity.RoleUser},
		"u2":      {ID: "u2", Name: "Ben", Email: "ben@example.com", Phone: "222", Role: entity.RoleUser},
		"u3":      {ID: "u3", Name: "Cara", Email: "cara@example.com", Phone: "333", Role: entity.RoleUser},
		"admin-1": {ID: "admin-1", Name: "Support", Email: "support@example.com", Phone: "999", Role: entity.RoleAdmin},
	}}
	pusher := &fakePusher{}
	return NewChatUseCase(chatRepo, userRepo, pusher), chatRepo, pusher
}

func TestSendMessagePersistsAndPushesToBothRooms(t *testing.T) {
	uc, chatRepo, pusher := newChatFixture()

	message, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u2"),
		Body:     "Hello",
	})
	require.NoError(t, err)

	expectedKey, _ := entity.ConversationKey("u1", "u2")
	assert.Equal(t, expectedKey, message.ConversationKey)
	assert.Equal(t, "u1", message.SenderID)
	assert.Equal(t, "u2", message.ReceiverID)
	assert.Equal(t, "Hello", message.Body)
	assert.False(t, message.Read)
	assert.False(t, message.SentByAdmin)
	assert.NotEmpty(t, message.ID)

	assert.Equal(t, 1, chatRepo.count())
	assert.ElementsMatch(t, []string{"u1", "u2"}, pusher.roomsPushed())
}

func TestSendMessageResolvesAdminAlias(t *testing.T) {
	uc, _, pusher := newChatFixture()

	message, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: AdminReceiver(),
		Body:     "I need help with my order",
		OrderID:  "order-7",
	})
	require.NoError(t, err)

	assert.Equal(t, "admin-1", message.ReceiverID)
	assert.Equal(t, "order-7", message.OrderID)

	expectedKey, _ := entity.ConversationKey("u1", "admin-1")
	assert.Equal(t, expectedKey, message.ConversationKey)
	assert.ElementsMatch(t, []string{"u1", "admin-1"}, pusher.roomsPushed())
}

func TestSendMessageFromAdminSetsFlag(t *testing.T) {
	uc, _, _ := newChatFixture()

	message, err := uc.SendMessage(context.Background(), "admin-1", SendMessageInput{
		Receiver: DirectReceiver("u1"),
		Body:     "How can I help?",
	})
	require.NoError(t, err)
	assert.True(t, message.SentByAdmin)
}

func TestSendMessageEmptyBodyPersistsNothing(t *testing.T) {
	uc, chatRepo, pusher := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u2"),
	})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	assert.Equal(t, 0, chatRepo.count())
	assert.Empty(t, pusher.roomsPushed())
}

func TestSendMessageUnknownReceiverPersistsNothing(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("ghost"),
		Body:     "Anyone there?",
	})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	assert.Equal(t, 0, chatRepo.count())
}

func TestSendMessageToSelfRejected(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u1"),
		Body:     "Note to self",
	})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	assert.Equal(t, 0, chatRepo.count())
}

func TestSendMessageRequiresAuthenticatedSender(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "", SendMessageInput{
		Receiver: DirectReceiver("u2"),
		Body:     "Hello",
	})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestSendMessageRateLimited(t *testing.T) {
	uc, _, _ := newChatFixture()

	var err error
	for i := 0; i < 10; i++ {
		_, err = uc.SendMessage(context.Background(), "u1", SendMessageInput{
			Receiver: DirectReceiver("u2"),
			Body:     fmt.Sprintf("burst %d", i),
		})
		require.NoError(t, err)
	}

	_, err = uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u2"),
		Body:     "one too many",
	})
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestGetMessagesReturnsOrderedHistoryWithoutDuplicates(t *testing.T) {
	uc, _, _ := newChatFixture()

	const n = 5
	for i := 0; i < n; i++ {
		_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
			Receiver: DirectReceiver("u2"),
			Body:     fmt.Sprintf("message %d", i),
		})
		require.NoError(t, err)
	}

	messages, err := uc.GetMessages(context.Background(), "u2", "u1")
	require.NoError(t, err)
	require.Len(t, messages, n)

	seen := make(map[string]bool)
	for i, message := range messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), message.Body)
		assert.False(t, seen[message.ID])
		seen[message.ID] = true
		if i > 0 {
			assert.False(t, message.CreatedAt.Before(messages[i-1].CreatedAt))
		}
	}
}

func TestGetMessagesMarksCallerMessagesRead(t *testing.T) {
	uc, _, _ := newChatFixture()

	sent, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u2"),
		Body:     "Hello",
	})
	require.NoError(t, err)
	assert.False(t, sent.Read)

	_, err = uc.GetMessages(context.Background(), "u2", "u1")
	require.NoError(t, err)

	// Second fetch observes the read flag and is itself a no-op on state.
	messages, err := uc.GetMessages(context.Background(), "u2", "u1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Hello", messages[0].Body)
	assert.True(t, messages[0].Read)
}

func TestGetMessagesLeavesOtherReceiversUnread(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u2"),
		Body:     "for u2",
	})
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u3"),
		Body:     "for u3",
	})
	require.NoError(t, err)

	_, err = uc.GetMessages(context.Background(), "u2", "u1")
	require.NoError(t, err)

	otherKey, _ := entity.ConversationKey("u1", "u3")
	others, err := chatRepo.ListByConversation(context.Background(), otherKey)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].Read)
}

func TestGetMessagesDoesNotMarkCallersOwnSends(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u2"),
		Body:     "Hello",
	})
	require.NoError(t, err)

	// The sender reloading the window must not flip the receiver's unread flag.
	messages, err := uc.GetMessages(context.Background(), "u1", "u2")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.False(t, messages[0].Read)
}

func TestMarkMessageReadIsIdempotent(t *testing.T) {
	uc, _, _ := newChatFixture()

	sent, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u2"),
		Body:     "Hello",
	})
	require.NoError(t, err)

	first, err := uc.MarkMessageRead(context.Background(), "u2", sent.ID)
	require.NoError(t, err)
	assert.True(t, first.Read)

	second, err := uc.MarkMessageRead(context.Background(), "u2", sent.ID)
	require.NoError(t, err)
	assert.True(t, second.Read)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestMarkMessageReadUnknownID(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.MarkMessageRead(context.Background(), "u2", "missing")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestMarkMessageReadRejectsNonParticipant(t *testing.T) {
	uc, _, _ := newChatFixture()

	sent, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: DirectReceiver("u2"),
		Body:     "Hello",
	})
	require.NoError(t, err)

	_, err = uc.MarkMessageRead(context.Background(), "u3", sent.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListAdminConversations(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: AdminReceiver(),
		Body:     "Where is my parcel?",
	})
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), "u3", SendMessageInput{
		Receiver: AdminReceiver(),
		Body:     "Refund please",
	})
	require.NoError(t, err)

	summaries, err := uc.ListAdminConversations(context.Background(), "admin-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byCounterpart := make(map[string]*entity.ConversationSummary)
	for _, summary := range summaries {
		require.NotNil(t, summary.Counterpart)
		byCounterpart[summary.Counterpart.ID] = summary
	}

	first := byCounterpart["u1"]
	require.NotNil(t, first)
	assert.Equal(t, 1, first.UnreadCount)
	assert.Equal(t, "Where is my parcel?", first.LatestMessage.Body)
	assert.Equal(t, "Asha", first.Counterpart.Name)
	assert.Equal(t, "asha@example.com", first.Counterpart.Email)
	assert.Equal(t, "111", first.Counterpart.Phone)

	second := byCounterpart["u3"]
	require.NotNil(t, second)
	assert.Equal(t, 1, second.UnreadCount)
	assert.Equal(t, "Refund please", second.LatestMessage.Body)
}

func TestListAdminConversationsTracksLatestMessage(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "u1", SendMessageInput{
		Receiver: AdminReceiver(),
		Body:     "first",
	})
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), "admin-1", SendMessageInput{
		Receiver: DirectReceiver("u1"),
		Body:     "second",
	})
	require.NoError(t, err)

	summaries, err := uc.ListAdminConversations(context.Background(), "admin-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "second", summaries[0].LatestMessage.Body)
	assert.Equal(t, 2, summaries[0].UnreadCount)
	require.NotNil(t, summaries[0].Counterpart)
	assert.Equal(t, "u1", summaries[0].Counterpart.ID)
}

func TestGetDesignatedAdmin(t *testing.T) {
	uc, _, _ := newChatFixture()

	admin, err := uc.GetDesignatedAdmin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin-1", admin.ID)
	assert.Equal(t, "Support", admin.Name)
}
