package converter

import (
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

type RoomResponse struct {
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ImageKey  *string   `json:"imageKey"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func RoomToApi(r *domain.Room) *RoomResponse {
	resp := &RoomResponse{
		ID:        r.ID,
		Code:      r.Code,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.ImageKey != "" {
		key := r.ImageKey
		resp.ImageKey = &key
	}
	return resp
}

func RoomsToApi(rooms []*domain.Room) []*RoomResponse {
	result := make([]*RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, RoomToApi(r))
	}
	return result
}
