package usecase

import "myshop/internal/domain/entity"

// MessagePusher delivers a persisted message to a participant's live
// sessions. Implementations are fire-and-forget; an offline participant
// catches up from the store on reconnect.
type MessagePusher interface {
	PushNewMessage(participantID string, message *entity.ChatMessage)
}
