package handler

import (
	"net/http"
	"strings"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"myshop/internal/adapter/api/middleware"
	ws "myshop/internal/infrastructure/websocket"
	"myshop/pkg/errors"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
	upgrader       gorillaws.Upgrader
}

func NewWebSocketHandler(wsManager *ws.Manager, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker admits handshakes from the configured storefront origins. A
// missing Origin header means a non-browser client, which still has to
// present a valid token.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, candidate := range allowed {
			if candidate == "*" || strings.EqualFold(candidate, origin) {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket upgrades the connection and registers it with the room
// manager. Browsers cannot set headers on a WebSocket handshake, so the
// token may arrive as a query parameter instead.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		token := c.QueryParam("token")
		if token == "" {
			return errors.Unauthorized("Authentication required", nil)
		}

		uid, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
		if err != nil {
			return errors.Unauthorized("Invalid or expired token", err)
		}
		userID = uid
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	// Registration must land before the pumps start so the first join frame
	// is never dropped.
	h.wsManager.RegisterClient(client)

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
