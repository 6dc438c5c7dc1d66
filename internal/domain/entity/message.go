package entity

import "time"

// ChatMessage is the durable unit of chat. ConversationKey, SenderID,
// ReceiverID, Body and CreatedAt are immutable once persisted; only the Read
// flag (and UpdatedAt) may change afterwards.
type ChatMessage struct {
	ID              string    `json:"id" firestore:"id"`
	ConversationKey string    `json:"conversation_key" firestore:"conversationKey"`
	SenderID        string    `json:"sender_id" firestore:"senderId"`
	ReceiverID      string    `json:"receiver_id" firestore:"receiverId"`
	Body            string    `json:"body" firestore:"body"`
	Read            bool      `json:"read" firestore:"read"`
	SentByAdmin     bool      `json:"sent_by_admin" firestore:"sentByAdmin"`
	OrderID         string    `json:"order_id,omitempty" firestore:"orderId,omitempty"`
	ProductID       string    `json:"product_id,omitempty" firestore:"productId,omitempty"`
	Seq             int64     `json:"-" firestore:"seq"` // tiebreak for same-instant sends
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ConversationSummary is the admin triage view of one conversation. It is
// computed per query and never stored.
type ConversationSummary struct {
	ConversationKey string       `json:"conversation_key"`
	LatestMessage   *ChatMessage `json:"latest_message"`
	UnreadCount     int          `json:"unread_count"`
	Counterpart     *Profile     `json:"counterpart,omitempty"`
}
