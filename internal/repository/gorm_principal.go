package repository

import (
	"context"
	"errors"
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository/model"
	"gorm.io/gorm"
)

type GormPrincipalRepository struct {
	db *gorm.DB
}

func NewGormPrincipalRepository(db *gorm.DB) *GormPrincipalRepository {
	return &GormPrincipalRepository{db: db}
}

// Create stores the user and its role profile in one transaction.
func (r *GormPrincipalRepository) Create(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return errors.New("principal is nil")
	}

	user := toModelUser(principal)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrHandleTaken
			}
			return err
		}

		var err error
		switch principal.Role {
		case domain.RoleStudent:
			err = tx.Create(&model.StudentProfile{StudentNo: principal.InstitutionalNumber, UserID: user.ID}).Error
		case domain.RoleProfessor:
			err = tx.Create(&model.ProfessorProfile{ProfessorNo: principal.InstitutionalNumber, UserID: user.ID}).Error
		default:
			return errors.New("unknown role " + string(principal.Role))
		}
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrInstitutionalNumberTaken
			}
			return err
		}

		principal.ID = user.ID
		principal.CreatedAt = user.CreatedAt.UTC()
		principal.UpdatedAt = user.UpdatedAt.UTC()
		return nil
	})
}

func (r *GormPrincipalRepository) GetByID(ctx context.Context, id uint) (*domain.Principal, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("ProfessorProfile").
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return toDomainPrincipal(&user), nil
}

// GetByInstitutionalNumber looks among students first, then professors.
func (r *GormPrincipalRepository) GetByInstitutionalNumber(ctx context.Context, number string) (*domain.Principal, error) {
	db := r.db.WithContext(ctx)

	var userID uint
	var student model.StudentProfile
	err := db.Where("student_no = ?", number).First(&student).Error
	switch {
	case err == nil:
		userID = student.UserID
	case errors.Is(err, gorm.ErrRecordNotFound):
		var professor model.ProfessorProfile
		if err := db.Where("professor_no = ?", number).First(&professor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		userID = professor.UserID
	default:
		return nil, err
	}

	return r.GetByID(ctx, userID)
}

func (r *GormPrincipalRepository) HandleExists(ctx context.Context, handle string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("handle = ?", handle).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPrincipalRepository) UpdateHandle(ctx context.Context, id uint, handle string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{"handle": handle, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrHandleTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPrincipalNotFound
	}
	return nil
}

// Delete removes the account. A student loses only their own chat messages;
// a professor's deletion clears the chat of every room they belong to.
func (r *GormPrincipalRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Preload("StudentProfile").Preload("ProfessorProfile").First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPrincipalNotFound
			}
			return err
		}

		messages := tx.Where("author_id = ?", id)
		if user.ProfessorProfile != nil {
			var roomIDs []uint
			if err := tx.Model(&model.ProfessorRoom{}).
				Where("professor_profile_id = ?", user.ProfessorProfile.ID).
				Pluck("room_id", &roomIDs).Error; err != nil {
				return err
			}
			if len(roomIDs) > 0 {
				messages = tx.Where("author_id = ? OR room_id IN ?", id, roomIDs)
			}
		}
		if err := messages.Delete(&model.Message{}).Error; err != nil {
			return err
		}

		var checkIDs []uint
		if err := tx.Model(&model.CheckUser{}).Where("user_id = ?", id).Pluck("check_id", &checkIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.CheckUser{}).Error; err != nil {
			return err
		}
		for _, checkID := range checkIDs {
			if err := recountChecklist(tx, checkID, nil); err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.OXAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Submission{}).Error; err != nil {
			return err
		}

		if user.StudentProfile != nil {
			if err := tx.Where("student_profile_id = ?", user.StudentProfile.ID).Delete(&model.StudentRoom{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(user.StudentProfile).Error; err != nil {
				return err
			}
		}
		if user.ProfessorProfile != nil {
			if err := tx.Where("professor_profile_id = ?", user.ProfessorProfile.ID).Delete(&model.ProfessorRoom{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(user.ProfessorProfile).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.User{}, id).Error
	})
}

func toModelUser(p *domain.Principal) *model.User {
	var handle *string
	if p.Handle != "" {
		h := p.Handle
		handle = &h
	}
	return &model.User{
		ID:           p.ID,
		Name:         p.Name,
		Handle:       handle,
		PasswordHash: p.PasswordHash,
		Role:         string(p.Role),
	}
}

func toDomainPrincipal(u *model.User) *domain.Principal {
	p := &domain.Principal{
		ID:           u.ID,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         domain.Role(u.Role),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
	if u.Handle != nil {
		p.Handle = *u.Handle
	}
	switch {
	case u.StudentProfile != nil:
		p.InstitutionalNumber = u.StudentProfile.StudentNo
	case u.ProfessorProfile != nil:
		p.InstitutionalNumber = u.ProfessorProfile.ProfessorNo
	}
	return p
}

func toMember(u *model.User) domain.Member {
	m := domain.Member{UserID: u.ID, Role: domain.Role(u.Role)}
	if u.Handle != nil {
		m.Handle = *u.Handle
	}
	return m
}
