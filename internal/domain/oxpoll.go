package domain

import (
	"fmt"
	"time"
)

type OXValue string

const (
	OXTrue  OXValue = "O"
	OXFalse OXValue = "X"
)

func ParseOXValue(s string) (OXValue, error) {
	switch v := OXValue(s); v {
	case OXTrue, OXFalse:
		return v, nil
	}
	return "", fmt.Errorf("%w: ox answer must be O or X", ErrBadRequest)
}

type OXAnswer struct {
	User  Member
	Value OXValue
}

// OXPoll is a true/false poll. Answers hold at most one value per user.
type OXPoll struct {
	ID        uint
	RoomID    uint
	CreatorID uint
	CreatedAt time.Time
	Answers   []OXAnswer
}

// Tally counts the current answers. It is derived on every call.
func (p *OXPoll) Tally() (oCount, xCount int) {
	for _, a := range p.Answers {
		switch a.Value {
		case OXTrue:
			oCount++
		case OXFalse:
			xCount++
		}
	}
	return oCount, xCount
}

func (p *OXPoll) AnswerOf(userID uint) (OXValue, bool) {
	for _, a := range p.Answers {
		if a.User.UserID == userID {
			return a.Value, true
		}
	}
	return "", false
}
