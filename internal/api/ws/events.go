package ws

import (
	"encoding/json"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type roomRef struct {
	Room string `json:"room"`
}

type chatSend struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

type oxAnswer struct {
	Room   string  `json:"room"`
	PollID uint    `json:"pollId"`
	Answer *string `json:"answer"`
}

type checkToggle struct {
	Room      string `json:"room"`
	CheckID   uint   `json:"checkId"`
	IsChecked bool   `json:"isChecked"`
}

type drawStart struct {
	Room         string                   `json:"room"`
	Participants []domain.DrawParticipant `json:"participants"`
	IsRelease    bool                     `json:"isRelease"`
}

type joinedPayload struct {
	RoomCode string      `json:"roomCode,omitempty"`
	RoomID   uint        `json:"roomId"`
	UserID   uint        `json:"userId"`
	Handle   string      `json:"handle"`
	Role     domain.Role `json:"role"`
}

type errorPayload struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}
