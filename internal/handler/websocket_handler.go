package handler

import (
	"net/http"

	ws "github.com/dkrasnov/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TokenValidator validates a raw token string and returns the user id
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

// WebSocketHandler upgrades connections and attaches them to the hub
type WebSocketHandler struct {
	hub       *ws.Hub
	validator TokenValidator
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *ws.Hub, validator TokenValidator) *WebSocketHandler {
	return &WebSocketHandler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the CORS layer for the rest of the
			// API; the token in the query is the gate here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect handles GET /api/v1/ws?token=
// Browsers cannot set headers on WebSocket handshakes, so the access
// token arrives as a query parameter.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return NewUnauthorizedError(c, "Token required")
	}

	userID, err := h.validator.ValidateToken(token)
	if err != nil {
		return NewUnauthorizedError(c, "Invalid or expired token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Stringer("user_id", userID).Msg("WebSocket upgrade failed")
		return nil // upgrader already wrote the response
	}

	client := ws.NewClient(conn, userID, h.hub)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
	return nil
}
