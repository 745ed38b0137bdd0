package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/classroom_live/internal/config"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/service"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

type Services struct {
	Auth      service.AuthInteractor
	Rooms     service.RoomInteractor
	Chat      service.ChatInteractor
	OXPolls   service.OXPollInteractor
	Checklist service.ChecklistInteractor
	Draws     service.DrawInteractor
	Timeline  service.TimelineInteractor
}

// Gateway authenticates realtime connections and routes their events to the
// services. Outbound fan-out goes through the hub.
type Gateway struct {
	svc      Services
	hub      *Hub
	cfg      config.WebSocketConfig
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewGateway(svc Services, hub *Hub, cfg config.WebSocketConfig, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		svc: svc,
		hub: hub,
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler serves the endpoint of one audience. Connections whose principal
// has another role are refused before the upgrade.
func (g *Gateway) Handler(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "ws.gateway.connect"
		log := g.log.With(slog.String("op", op), slog.String("audience", string(role)))

		token := requestToken(r)
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		principal, err := g.svc.Auth.Authenticate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				log.Error("authentication failed", sl.Err(err))
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if principal.Role != role {
			http.Error(w, "unauthorized for this audience", http.StatusUnauthorized)
			return
		}

		socket, err := g.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Info("upgrade failed", sl.Err(err))
			return
		}

		c := newConn(socket, domain.AuthenticatedConnection{
			ID:     uuid.NewString(),
			UserID: principal.ID,
			Role:   principal.Role,
			Handle: principal.Handle,
		}, g.cfg, g.log)

		log.Debug("connected", slog.String("conn_id", c.ID()), slog.Uint64("user_id", uint64(principal.ID)))
		go c.writeLoop()
		g.readLoop(r.Context(), c)
	}
}

func (g *Gateway) readLoop(ctx context.Context, c *Conn) {
	defer g.disconnect(c)

	c.prepareRead()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Debug("read failed", slog.String("conn_id", c.ID()), sl.Err(err))
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.sendEvent(domain.EventError, errorPayload{Message: "malformed frame"})
			continue
		}
		if err := g.dispatch(ctx, c, frame); err != nil {
			g.reportError(c, frame.Event, err)
		}
	}
}

// disconnect only drops connection-local state and tells the joined rooms.
func (g *Gateway) disconnect(c *Conn) {
	c.Close()
	member := c.Member()
	for _, roomID := range c.joined {
		g.hub.Leave(roomID, c)
		g.hub.PublishToRoom(roomID, domain.EventUserLeft, member)
	}
	clear(c.joined)
	g.log.Debug("disconnected", slog.String("conn_id", c.ID()))
}

func (g *Gateway) dispatch(ctx context.Context, c *Conn, frame inboundFrame) error {
	switch frame.Event {
	case domain.EventRoomJoin:
		var p roomRef
		if err := decode(frame.Data, &p); err != nil {
			return err
		}
		return g.join(ctx, c, p.Room)

	case domain.EventChatSend:
		var p chatSend
		if err := decode(frame.Data, &p); err != nil {
			return err
		}
		roomID, err := joinedRoom(c, p.Room)
		if err != nil {
			return err
		}
		_, err = g.svc.Chat.Send(ctx, c.Member(), roomID, p.Text)
		return err

	case domain.EventOXPollCreate:
		var p roomRef
		if err := decode(frame.Data, &p); err != nil {
			return err
		}
		roomID, err := joinedRoom(c, p.Room)
		if err != nil {
			return err
		}
		_, err = g.svc.OXPolls.CreatePoll(ctx, c.Member(), roomID)
		return err

	case domain.EventOXPollAnswer:
		var p oxAnswer
		if err := decode(frame.Data, &p); err != nil {
			return err
		}
		roomID, err := joinedRoom(c, p.Room)
		if err != nil {
			return err
		}
		var value *domain.OXValue
		if p.Answer != nil {
			v, err := domain.ParseOXValue(*p.Answer)
			if err != nil {
				return err
			}
			value = &v
		}
		_, err = g.svc.OXPolls.Answer(ctx, c.Member(), roomID, p.PollID, value)
		return err

	case domain.EventCheckCreate:
		var p roomRef
		if err := decode(frame.Data, &p); err != nil {
			return err
		}
		roomID, err := joinedRoom(c, p.Room)
		if err != nil {
			return err
		}
		_, err = g.svc.Checklist.CreateItem(ctx, c.Member(), roomID)
		return err

	case domain.EventCheckToggle:
		if c.Role() != domain.RoleStudent {
			return fmt.Errorf("%w: only students can check in", domain.ErrForbidden)
		}
		var p checkToggle
		if err := decode(frame.Data, &p); err != nil {
			return err
		}
		roomID, err := joinedRoom(c, p.Room)
		if err != nil {
			return err
		}
		_, err = g.svc.Checklist.Toggle(ctx, c.Member(), roomID, p.CheckID, p.IsChecked)
		return err

	case domain.EventDrawStart:
		var p drawStart
		if err := decode(frame.Data, &p); err != nil {
			return err
		}
		roomID, err := joinedRoom(c, p.Room)
		if err != nil {
			return err
		}
		_, err = g.svc.Draws.Start(ctx, c.Member(), roomID, p.Participants, p.IsRelease)
		return err
	}

	return fmt.Errorf("%w: unknown event %q", domain.ErrBadRequest, frame.Event)
}

// join puts the connection in the room, announces it to the others and sends
// the joiner its code and personalised history.
func (g *Gateway) join(ctx context.Context, c *Conn, code string) error {
	room, err := g.svc.Rooms.Join(ctx, c.Member(), code)
	if err != nil {
		return err
	}

	if _, already := c.joined[room.Code]; !already {
		c.joined[room.Code] = room.ID
		g.hub.Join(room.ID, c)
	}

	member := c.Member()
	announce := joinedPayload{RoomID: room.ID, UserID: member.UserID, Handle: member.Handle, Role: member.Role}
	g.hub.PublishToOthers(room.ID, c, domain.EventRoomJoined, announce)

	announce.RoomCode = room.Code
	c.sendEvent(domain.EventRoomJoined, announce)

	viewer := member.UserID
	history, err := g.svc.Timeline.BuildHistory(ctx, room.ID, &viewer)
	if err != nil {
		return err
	}
	c.sendEvent(domain.EventRoomHistory, history)
	return nil
}

// reportError answers only the sender. Unexpected errors are logged and
// reported without details.
func (g *Gateway) reportError(c *Conn, event string, err error) {
	msg := err.Error()
	if !isDomainError(err) {
		g.log.Error("event failed", slog.String("event", event), slog.String("conn_id", c.ID()), sl.Err(err))
		msg = "internal error"
	}
	c.sendEvent(domain.EventError, errorPayload{Event: event, Message: msg})
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrBadRequest) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrUnauthorized)
}

func joinedRoom(c *Conn, code string) (uint, error) {
	roomID, ok := c.joined[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, fmt.Errorf("%w: join room %q first", domain.ErrForbidden, code)
	}
	return roomID, nil
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing payload", domain.ErrBadRequest)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: malformed payload", domain.ErrBadRequest)
	}
	return nil
}

func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return r.URL.Query().Get("token")
}
