package handler

import (
	"github.com/labstack/echo/v4"

	"myshop/internal/usecase"
	"myshop/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// The literal "admin" receiver is a client convenience for "contact support";
// it is translated into the tagged alias here and nowhere deeper.
const adminReceiverAlias = "admin"

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Message    string `json:"message" validate:"required"`
	OrderID    string `json:"order_id,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
}

// SendMessage persists a message and pushes it to both participants' rooms.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	receiver := usecase.DirectReceiver(req.ReceiverID)
	if req.ReceiverID == adminReceiverAlias {
		receiver = usecase.AdminReceiver()
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		Receiver:  receiver,
		Body:      req.Message,
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetMessages returns the caller's conversation with another user, oldest
// first, marking messages addressed to the caller as read.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	withUserID := c.Param("withUserId")
	userID := c.Get("uid").(string)

	messages, err := h.chatUseCase.GetMessages(c.Request().Context(), userID, withUserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// MarkRead flags a single message as read.
func (h *ChatHandler) MarkRead(c echo.Context) error {
	messageID := c.Param("id")
	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.MarkMessageRead(c.Request().Context(), userID, messageID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, message)
}

// ListAdminConversations returns per-conversation summaries for the operator
// console.
func (h *ChatHandler) ListAdminConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	summaries, err := h.chatUseCase.ListAdminConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summaries)
}

// GetDesignatedAdmin resolves the support contact's public profile.
func (h *ChatHandler) GetDesignatedAdmin(c echo.Context) error {
	admin, err := h.chatUseCase.GetDesignatedAdmin(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, admin)
}
