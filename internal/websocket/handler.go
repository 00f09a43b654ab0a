package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/infrastructure"
)

// Handler upgrades HTTP requests and attaches the connections to a hub
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the upgrade handler. allowOrigin decides which
// browser origins may connect; nil accepts any origin.
func NewHandler(hub *Hub, allowOrigin func(r *http.Request) bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = hub.logger
	}
	if allowOrigin == nil {
		allowOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.WebSocketReadBufferSize,
			WriteBufferSize: config.WebSocketWriteBufferSize,
			CheckOrigin:     allowOrigin,
		},
		logger: logger.With(slog.String("component", "websocket.handler")),
	}
}

// ServeHTTP upgrades the request and runs the client pumps
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.WarnContext(r.Context(), "upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(h.hub, NewConnectionWrapper(conn), infrastructure.GetTraceID(r.Context()), h.logger)
	if err := h.hub.Register(r.Context(), client); err != nil {
		h.logger.WarnContext(r.Context(), "register failed", slog.String("error", err.Error()))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
