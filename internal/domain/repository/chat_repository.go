package repository

import (
	"context"

	"myshop/internal/domain/entity"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, message *entity.ChatMessage) error
	ListByConversation(ctx context.Context, conversationKey string) ([]*entity.ChatMessage, error)
	GetMessageByID(ctx context.Context, messageID string) (*entity.ChatMessage, error)
	MarkMessageRead(ctx context.Context, messageID string) (*entity.ChatMessage, error)

	// MarkAllRead flags every unread message addressed to receiverID as read.
	// An empty conversationKey covers all of the receiver's conversations.
	// Returns the number of messages updated.
	MarkAllRead(ctx context.Context, conversationKey, receiverID string) (int, error)

	SummarizeForParticipant(ctx context.Context, participantID string) ([]*entity.ConversationSummary, error)
}
