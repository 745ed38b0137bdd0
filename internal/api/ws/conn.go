package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/classroom_live/internal/config"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

const maxFrameSize = 64 << 10

// Conn wraps one websocket. All writes go through a single writer goroutine.
type Conn struct {
	principal domain.AuthenticatedConnection
	ws        *websocket.Conn
	cfg       config.WebSocketConfig
	log       *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// joined maps room code to room id. Only the read loop touches it.
	joined map[string]uint
}

func newConn(ws *websocket.Conn, principal domain.AuthenticatedConnection, cfg config.WebSocketConfig, log *slog.Logger) *Conn {
	return &Conn{
		principal: principal,
		ws:        ws,
		cfg:       cfg,
		log:       log,
		send:      make(chan []byte, cfg.SendBuffer),
		done:      make(chan struct{}),
		joined:    make(map[string]uint),
	}
}

func (c *Conn) ID() string { return c.principal.ID }

func (c *Conn) Role() domain.Role { return c.principal.Role }

func (c *Conn) Member() domain.Member { return c.principal.Member() }

// enqueue never blocks. A full buffer closes the connection.
func (c *Conn) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		c.Close()
		return false
	}
}

func (c *Conn) sendEvent(event string, payload any) {
	data, err := json.Marshal(domain.Envelope{Event: event, Data: payload})
	if err != nil {
		c.log.Error("failed to encode event", slog.String("event", event))
		return
	}
	c.enqueue(data)
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Conn) writeLoop() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteWait)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// prepareRead arms the liveness timeout: every pong pushes the read deadline
// forward by PongWait.
func (c *Conn) prepareRead() {
	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})
}
