package router

import (
	"github.com/labstack/echo/v4"

	"myshop/internal/adapter/api/handler"
)

// SetupWebSocketRouter wires the real-time endpoint. Auth happens inside the
// handler because the handshake may carry the token as a query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
