package repository

import (
	"context"
	"errors"
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormOXPollRepository struct {
	db *gorm.DB
}

func NewGormOXPollRepository(db *gorm.DB) *GormOXPollRepository {
	return &GormOXPollRepository{db: db}
}

func (r *GormOXPollRepository) Create(ctx context.Context, poll *domain.OXPoll) error {
	if poll == nil {
		return errors.New("poll is nil")
	}

	m := &model.OXPoll{RoomID: poll.RoomID, CreatorID: poll.CreatorID}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	poll.ID = m.ID
	poll.CreatedAt = m.CreatedAt.UTC()
	poll.Answers = []domain.OXAnswer{}
	return nil
}

func (r *GormOXPollRepository) GetByID(ctx context.Context, id uint) (*domain.OXPoll, error) {
	var poll model.OXPoll
	if err := r.withAnswers(ctx).First(&poll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	return toDomainOXPoll(&poll), nil
}

func (r *GormOXPollRepository) SetAnswer(ctx context.Context, pollID uint, userID uint, value *domain.OXValue) error {
	db := r.db.WithContext(ctx)

	if err := db.Select("id").First(&model.OXPoll{}, pollID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPollNotFound
		}
		return err
	}

	if value == nil {
		return db.Where("poll_id = ? AND user_id = ?", pollID, userID).Delete(&model.OXAnswer{}).Error
	}

	answer := &model.OXAnswer{PollID: pollID, UserID: userID, Value: string(*value), UpdatedAt: time.Now().UTC()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(answer).Error
}

func (r *GormOXPollRepository) ListByRoom(ctx context.Context, roomID uint) ([]*domain.OXPoll, error) {
	var polls []model.OXPoll
	if err := r.withAnswers(ctx).Where("room_id = ?", roomID).Order("created_at, id").Find(&polls).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.OXPoll, 0, len(polls))
	for i := range polls {
		result = append(result, toDomainOXPoll(&polls[i]))
	}
	return result, nil
}

func (r *GormOXPollRepository) withAnswers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Answers.User")
}

func toDomainOXPoll(p *model.OXPoll) *domain.OXPoll {
	poll := &domain.OXPoll{
		ID:        p.ID,
		RoomID:    p.RoomID,
		CreatorID: p.CreatorID,
		CreatedAt: p.CreatedAt.UTC(),
		Answers:   make([]domain.OXAnswer, 0, len(p.Answers)),
	}
	for i := range p.Answers {
		a := &p.Answers[i]
		poll.Answers = append(poll.Answers, domain.OXAnswer{User: toMember(&a.User), Value: domain.OXValue(a.Value)})
	}
	return poll
}
