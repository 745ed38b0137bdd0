package domain

import (
	"math/rand/v2"
	"time"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Room is a classroom. Code is the only identifier handed to clients before
// they join; everything stored under a room keys on ID.
type Room struct {
	ID        uint
	Code      string
	Name      string
	ImageKey  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewRoom(name string, codeLength int) *Room {
	now := time.Now().UTC()
	return &Room{
		Code:      GenerateRoomCode(codeLength),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateRoomCode returns an upper-case alphanumeric code of the given
// length (at most 16).
func GenerateRoomCode(length int) string {
	if length <= 0 || length > 16 {
		length = 6
	}
	code := make([]byte, length)
	for i := range code {
		code[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(code)
}

// RoomUpdate carries the editable room fields; nil leaves a field as is.
type RoomUpdate struct {
	Name     *string
	IsActive *bool
}

// RoomImage is an image uploaded into a room gallery.
type RoomImage struct {
	ID         uint
	RoomID     uint
	UploaderID uint
	Key        string
	CreatedAt  time.Time
}
