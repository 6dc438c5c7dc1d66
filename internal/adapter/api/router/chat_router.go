package router

import (
	"github.com/labstack/echo/v4"

	"myshop/internal/adapter/api/handler"
	"myshop/internal/adapter/api/middleware"
)

// SetupChatRouter wires the chat REST surface (the WebSocket endpoint is
// wired separately).
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("/send", chatHandler.SendMessage)                 // POST /v1/chats/send
	chatGroup.GET("/:withUserId/messages", chatHandler.GetMessages)  // GET /v1/chats/:withUserId/messages
	chatGroup.PUT("/messages/:id/read", chatHandler.MarkRead)        // PUT /v1/chats/messages/:id/read
	chatGroup.GET("/admin", chatHandler.GetDesignatedAdmin)          // GET /v1/chats/admin

	adminGroup := e.Group("/v1/chats/admin")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.AdminOnly)
	adminGroup.GET("/conversations", chatHandler.ListAdminConversations) // GET /v1/chats/admin/conversations
}
