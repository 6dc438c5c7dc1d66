package repository

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"myshop/internal/domain/entity"
	"myshop/internal/domain/repository"
	"myshop/pkg/errors"
	"myshop/pkg/logger"
)

const messagesCollection = "chat_messages"

// Requires composite indexes on (conversationKey, createdAt, seq) and
// (receiverId, read); see firestore.indexes.json.
type firestoreChatRepository struct {
	client *firestore.Client
	seq    atomic.Int64
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	now := time.Now()
	message.CreatedAt = now
	message.UpdatedAt = now
	// Two sends can land in the same instant; seq keeps their order stable.
	message.Seq = r.seq.Add(1)

	_, err := r.client.Collection(messagesCollection).Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListByConversation(ctx context.Context, conversationKey string) ([]*entity.ChatMessage, error) {
	query := r.client.Collection(messagesCollection).
		Where("conversationKey", "==", conversationKey).
		OrderBy("createdAt", firestore.Asc).
		OrderBy("seq", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.ChatMessage

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating conversation %s: %v", conversationKey, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.ChatMessage
		if err := doc.DataTo(&message); err != nil {
			logger.Error("Error parsing message data for conversation %s: %v", conversationKey, err)
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) GetMessageByID(ctx context.Context, messageID string) (*entity.ChatMessage, error) {
	doc, err := r.client.Collection(messagesCollection).Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.ChatMessage
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return &message, nil
}

func (r *firestoreChatRepository) MarkMessageRead(ctx context.Context, messageID string) (*entity.ChatMessage, error) {
	message, err := r.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if message.Read {
		return message, nil
	}

	now := time.Now()
	// Field-level update so a concurrent write cannot be clobbered.
	_, err = r.client.Collection(messagesCollection).Doc(messageID).Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		return nil, errors.Internal("Failed to update message read status", err)
	}

	message.Read = true
	message.UpdatedAt = now
	return message, nil
}

func (r *firestoreChatRepository) MarkAllRead(ctx context.Context, conversationKey, receiverID string) (int, error) {
	query := r.client.Collection(messagesCollection).
		Where("receiverId", "==", receiverID).
		Where("read", "==", false)
	if conversationKey != "" {
		query = query.Where("conversationKey", "==", conversationKey)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while fetching unread messages for %s: %v", receiverID, err)
		return 0, errors.Internal("Failed to fetch unread messages", err)
	}

	now := time.Now()
	updated := 0
	for _, doc := range docs {
		_, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "read", Value: true},
			{Path: "updatedAt", Value: now},
		})
		if err != nil {
			logger.Error("Failed to mark message %s read: %v", doc.Ref.ID, err)
			return updated, errors.Internal("Failed to update message read status", err)
		}
		updated++
	}

	return updated, nil
}

func (r *firestoreChatRepository) SummarizeForParticipant(ctx context.Context, participantID string) ([]*entity.ConversationSummary, error) {
	// Firestore has no OR filter on two fields, so the sent and received
	// sides are fetched separately and merged by message id.
	sent, err := r.fetchByField(ctx, "senderId", participantID)
	if err != nil {
		return nil, err
	}
	received, err := r.fetchByField(ctx, "receiverId", participantID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	byConversation := make(map[string][]*entity.ChatMessage)
	for _, message := range append(sent, received...) {
		if seen[message.ID] {
			continue
		}
		seen[message.ID] = true
		byConversation[message.ConversationKey] = append(byConversation[message.ConversationKey], message)
	}

	var summaries []*entity.ConversationSummary
	for key, messages := range byConversation {
		summary := &entity.ConversationSummary{ConversationKey: key}
		for _, message := range messages {
			if !message.Read {
				summary.UnreadCount++
			}
			if summary.LatestMessage == nil || newerThan(message, summary.LatestMessage) {
				summary.LatestMessage = message
			}
		}
		summaries = append(summaries, summary)
	}

	// Most recently active conversation first, for operator triage.
	sort.Slice(summaries, func(i, j int) bool {
		return newerThan(summaries[i].LatestMessage, summaries[j].LatestMessage)
	})

	return summaries, nil
}

func (r *firestoreChatRepository) fetchByField(ctx context.Context, field, value string) ([]*entity.ChatMessage, error) {
	docs, err := r.client.Collection(messagesCollection).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Firestore error while querying messages by %s=%s: %v", field, value, err)
		return nil, errors.Internal("Failed to query messages", err)
	}

	var messages []*entity.ChatMessage
	for _, doc := range docs {
		var message entity.ChatMessage
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
			continue
		}
		messages = append(messages, &message)
	}
	return messages, nil
}

func newerThan(a, b *entity.ChatMessage) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.Seq > b.Seq
	}
	return a.CreatedAt.After(b.CreatedAt)
}
