package websocket

import (
	"time"
)

// Connection is the part of a websocket connection the clients use.
// It lets tests drive the pumps without a network.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error

	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)

	RemoteAddr() string
}
