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

type GormChecklistRepository struct {
	db *gorm.DB
}

func NewGormChecklistRepository(db *gorm.DB) *GormChecklistRepository {
	return &GormChecklistRepository{db: db}
}

func (r *GormChecklistRepository) Create(ctx context.Context, item *domain.ChecklistItem) error {
	if item == nil {
		return errors.New("checklist item is nil")
	}

	m := &model.Check{RoomID: item.RoomID, ProfessorID: item.ProfessorID}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	item.ID = m.ID
	item.IsChecked = m.IsChecked
	item.CheckCount = m.CheckCount
	item.CheckedUsers = []domain.Member{}
	item.CreatedAt = m.CreatedAt.UTC()
	item.UpdatedAt = m.UpdatedAt.UTC()
	return nil
}

func (r *GormChecklistRepository) GetByID(ctx context.Context, id uint) (*domain.ChecklistItem, error) {
	var item model.Check
	if err := r.withCheckers(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistItemNotFound
		}
		return nil, err
	}
	return toDomainChecklistItem(&item), nil
}

// Toggle adds or removes the user from the checked-in set and recomputes the
// count from the set inside the same transaction.
func (r *GormChecklistRepository) Toggle(ctx context.Context, itemID uint, userID uint, checked bool) (*domain.ChecklistItem, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Check{}, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChecklistItemNotFound
			}
			return err
		}

		if checked {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.CheckUser{CheckID: itemID, UserID: userID}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("check_id = ? AND user_id = ?", itemID, userID).Delete(&model.CheckUser{}).Error; err != nil {
				return err
			}
		}

		return recountChecklist(tx, itemID, &checked)
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, itemID)
}

func (r *GormChecklistRepository) ListByRoom(ctx context.Context, roomID uint) ([]*domain.ChecklistItem, error) {
	var items []model.Check
	if err := r.withCheckers(ctx).Where("room_id = ?", roomID).Order("created_at, id").Find(&items).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.ChecklistItem, 0, len(items))
	for i := range items {
		result = append(result, toDomainChecklistItem(&items[i]))
	}
	return result, nil
}

func (r *GormChecklistRepository) withCheckers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Checkers", func(db *gorm.DB) *gorm.DB { return db.Order("check_users.created_at, check_users.user_id") }).
		Preload("Checkers.User")
}

// recountChecklist sets check_count to the size of the checked-in set. When
// checked is set, is_checked follows it.
func recountChecklist(tx *gorm.DB, checkID uint, checked *bool) error {
	var count int64
	if err := tx.Model(&model.CheckUser{}).Where("check_id = ?", checkID).Count(&count).Error; err != nil {
		return err
	}

	updates := map[string]any{
		"check_count": count,
		"updated_at":  time.Now().UTC(),
	}
	if checked != nil {
		updates["is_checked"] = *checked
	}
	return tx.Model(&model.Check{}).Where("id = ?", checkID).Updates(updates).Error
}

func toDomainChecklistItem(c *model.Check) *domain.ChecklistItem {
	item := &domain.ChecklistItem{
		ID:           c.ID,
		RoomID:       c.RoomID,
		ProfessorID:  c.ProfessorID,
		IsChecked:    c.IsChecked,
		CheckCount:   c.CheckCount,
		CheckedUsers: make([]domain.Member, 0, len(c.Checkers)),
		CreatedAt:    c.CreatedAt.UTC(),
		UpdatedAt:    c.UpdatedAt.UTC(),
	}
	for i := range c.Checkers {
		item.CheckedUsers = append(item.CheckedUsers, toMember(&c.Checkers[i].User))
	}
	return item
}
