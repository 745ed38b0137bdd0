package repository

import (
	"context"
	"errors"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GormDrawRepository struct {
	db *gorm.DB
}

func NewGormDrawRepository(db *gorm.DB) *GormDrawRepository {
	return &GormDrawRepository{db: db}
}

func (r *GormDrawRepository) Create(ctx context.Context, draw *domain.Draw) error {
	if draw == nil {
		return errors.New("draw is nil")
	}

	participants := make(datatypes.JSONSlice[model.DrawParticipant], 0, len(draw.Participants))
	for _, p := range draw.Participants {
		participants = append(participants, model.DrawParticipant{UserID: p.UserID, Handle: p.Handle, Role: string(p.Role)})
	}

	m := &model.Draw{
		RoomID:       draw.RoomID,
		InitiatorID:  draw.InitiatorID,
		Participants: participants,
		WinnerID:     draw.WinnerID,
		IsRelease:    draw.IsRelease,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	draw.ID = m.ID
	draw.CreatedAt = m.CreatedAt.UTC()
	return nil
}

func (r *GormDrawRepository) ListByRoom(ctx context.Context, roomID uint) ([]*domain.Draw, error) {
	var draws []model.Draw
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at, id").Find(&draws).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Draw, 0, len(draws))
	for i := range draws {
		result = append(result, toDomainDraw(&draws[i]))
	}
	return result, nil
}

func toDomainDraw(d *model.Draw) *domain.Draw {
	draw := &domain.Draw{
		ID:           d.ID,
		RoomID:       d.RoomID,
		InitiatorID:  d.InitiatorID,
		Participants: make([]domain.DrawParticipant, 0, len(d.Participants)),
		WinnerID:     d.WinnerID,
		IsRelease:    d.IsRelease,
		CreatedAt:    d.CreatedAt.UTC(),
	}
	for _, p := range d.Participants {
		draw.Participants = append(draw.Participants, domain.DrawParticipant{UserID: p.UserID, Handle: p.Handle, Role: domain.Role(p.Role)})
	}
	return draw
}
