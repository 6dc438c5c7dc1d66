package router

import (
	"github.com/labstack/echo/v4"

	"myshop/internal/adapter/api/handler"
	"myshop/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	chatHandler *handler.ChatHandler,
	faqHandler *handler.FAQHandler,
	wsHandler *handler.WebSocketHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
) {
	SetupHealthRouter(e, healthHandler)
	SetupChatRouter(e, chatHandler, authMiddleware, adminMiddleware)
	SetupFAQRouter(e, faqHandler, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, wsHandler)
}
