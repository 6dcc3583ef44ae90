package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mindstage-server/internal/engine"
	"mindstage-server/pkg/api"
	"mindstage-server/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между websocket-соединением и сервисом команд.
// Команды одной сессии исполняются строго по одной: терминальный
// протокол последовательный, а движок сериализует вызовы сам.
type Client struct {
	service   *engine.Service
	conn      *websocket.Conn
	sessionID string
	send      chan api.Reply
}

func NewClient(service *engine.Service, conn *websocket.Conn) *Client {
	return &Client{
		service:   service,
		conn:      conn,
		sessionID: uuid.NewString(),
		send:      make(chan api.Reply, 64),
	}
}

// readPump читает команды клиента и прогоняет их через сервис.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		close(c.send)
		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
		}
		logger.Log.WithField("session", c.sessionID).Info("client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).Warn("websocket read failed")
			}
			return
		}

		reply := c.service.Process(ctx, cmd)
		c.send <- reply
		if reply.Kind == "quit" {
			return
		}
	}
}

// writePump пишет ответы и держит соединение пингами.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case reply, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(reply); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
