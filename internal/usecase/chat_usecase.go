package usecase

import (
	"context"

	"myshop/internal/domain/entity"
	"myshop/internal/domain/repository"
	"myshop/internal/infrastructure/ratelimit"
	"myshop/pkg/errors"
	"myshop/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	pusher      MessagePusher
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	pusher MessagePusher,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		pusher:      pusher,
		rateLimiter: rateLimiter,
	}
}

// ReceiverRef names the other side of a send: either a concrete participant
// id or the designated admin, resolved by role lookup. Resolution always
// happens before conversation-key derivation.
type ReceiverRef struct {
	ID              string
	DesignatedAdmin bool
}

func DirectReceiver(id string) ReceiverRef {
	return ReceiverRef{ID: id}
}

func AdminReceiver() ReceiverRef {
	return ReceiverRef{DesignatedAdmin: true}
}

type SendMessageInput struct {
	Receiver  ReceiverRef
	Body      string
	OrderID   string
	ProductID string
}

// SendMessage is the sole message-creation path: validate, persist, then
// push to both participants' rooms. The caller gets the persisted message
// synchronously; the push is a best-effort side effect.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.ChatMessage, error) {
	if senderID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	if allowed, waitTime := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		logger.Warn("SendMessage rate limited: user %s must wait %v", senderID, waitTime)
		return nil, errors.TooManyRequests("You are sending messages too quickly. Please slow down")
	}

	if input.Body == "" {
		return nil, errors.Validation("Message body is required", nil)
	}

	receiver, err := uc.resolveReceiver(ctx, input.Receiver)
	if err != nil {
		return nil, err
	}

	if receiver.ID == senderID {
		return nil, errors.Validation("You cannot send a message to yourself", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		logger.Error("SendMessage: sender %s not resolvable: %v", senderID, err)
		return nil, errors.Unauthorized("Sender identity could not be resolved", err)
	}

	conversationKey, err := entity.ConversationKey(senderID, receiver.ID)
	if err != nil {
		return nil, err
	}

	message := &entity.ChatMessage{
		ConversationKey: conversationKey,
		SenderID:        senderID,
		ReceiverID:      receiver.ID,
		Body:            input.Body,
		SentByAdmin:     sender.IsAdmin(),
		OrderID:         input.OrderID,
		ProductID:       input.ProductID,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		logger.Error("SendMessage: failed to persist message from %s to %s: %v", senderID, receiver.ID, err)
		return nil, err
	}

	// Both rooms get the push so the sender's other open tabs see the echo.
	uc.pusher.PushNewMessage(receiver.ID, message)
	uc.pusher.PushNewMessage(senderID, message)

	return message, nil
}

// GetMessages returns the full history of the caller's conversation with
// another participant, oldest first, and marks everything addressed to the
// caller in that conversation as read.
func (uc *ChatUseCase) GetMessages(ctx context.Context, callerID, withUserID string) ([]*entity.ChatMessage, error) {
	if callerID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	conversationKey, err := entity.ConversationKey(callerID, withUserID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.chatRepo.ListByConversation(ctx, conversationKey)
	if err != nil {
		return nil, err
	}

	if _, err := uc.chatRepo.MarkAllRead(ctx, conversationKey, callerID); err != nil {
		logger.Error("GetMessages: failed to mark conversation %s read for %s: %v", conversationKey, callerID, err)
		return nil, err
	}

	return messages, nil
}

// MarkMessageRead flags a single message as read. Idempotent.
func (uc *ChatUseCase) MarkMessageRead(ctx context.Context, callerID, messageID string) (*entity.ChatMessage, error) {
	if callerID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	message, err := uc.chatRepo.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if message.SenderID != callerID && message.ReceiverID != callerID {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	return uc.chatRepo.MarkMessageRead(ctx, messageID)
}

// ListAdminConversations produces the operator triage view: one summary per
// conversation touching the admin, with the counterpart's contact details
// attached. Recomputed on every call; role enforcement sits in the router.
func (uc *ChatUseCase) ListAdminConversations(ctx context.Context, adminID string) ([]*entity.ConversationSummary, error) {
	if adminID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	summaries, err := uc.chatRepo.SummarizeForParticipant(ctx, adminID)
	if err != nil {
		return nil, err
	}

	for _, summary := range summaries {
		counterpartID := summary.LatestMessage.SenderID
		if counterpartID == adminID {
			counterpartID = summary.LatestMessage.ReceiverID
		}

		counterpart, err := uc.userRepo.GetByID(ctx, counterpartID)
		if err != nil {
			logger.Warn("ListAdminConversations: counterpart %s not resolvable: %v", counterpartID, err)
			continue
		}
		summary.Counterpart = counterpart.Profile()
	}

	return summaries, nil
}

// GetDesignatedAdmin exposes the support contact so clients can open a chat
// without hardcoding an id.
func (uc *ChatUseCase) GetDesignatedAdmin(ctx context.Context) (*entity.Profile, error) {
	admin, err := uc.userRepo.GetDesignatedAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return admin.Profile(), nil
}

func (uc *ChatUseCase) resolveReceiver(ctx context.Context, ref ReceiverRef) (*entity.User, error) {
	if ref.DesignatedAdmin {
		admin, err := uc.userRepo.GetDesignatedAdmin(ctx)
		if err != nil {
			logger.Error("resolveReceiver: no designated admin: %v", err)
			return nil, err
		}
		return admin, nil
	}

	if ref.ID == "" {
		return nil, errors.Validation("Receiver id is required", nil)
	}

	receiver, err := uc.userRepo.GetByID(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.NotFound("Receiver", err)
		}
		return nil, err
	}
	return receiver, nil
}
