package repository

import (
	"context"
	"errors"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository/model"
	"gorm.io/gorm"
)

type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	if msg == nil {
		return errors.New("message is nil")
	}

	m := &model.Message{
		RoomID:   msg.RoomID,
		AuthorID: msg.Author.UserID,
		Message:  msg.Text,
	}
	if !msg.CreatedAt.IsZero() {
		m.CreatedAt = msg.CreatedAt.UTC()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	msg.ID = m.ID
	msg.CreatedAt = m.CreatedAt.UTC()
	return nil
}

// ListByRoom returns the room's messages joined with their authors, oldest
// first.
func (r *GormChatRepository) ListByRoom(ctx context.Context, roomID uint) ([]*domain.ChatMessage, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Joins("Author").
		Where("messages.room_id = ?", roomID).
		Order("messages.created_at, messages.id").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ChatMessage, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		result = append(result, &domain.ChatMessage{
			ID:        m.ID,
			RoomID:    m.RoomID,
			Author:    toMember(&m.Author),
			Text:      m.Message,
			CreatedAt: m.CreatedAt.UTC(),
		})
	}
	return result, nil
}
