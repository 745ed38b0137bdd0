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

type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room == nil {
		return errors.New("room is nil")
	}

	roomModel := toModelRoom(room)
	if err := r.db.WithContext(ctx).Create(roomModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRoomCodeExists
		}
		return err
	}

	room.ID = roomModel.ID
	room.CreatedAt = roomModel.CreatedAt.UTC()
	room.UpdatedAt = roomModel.UpdatedAt.UTC()
	return nil
}

func (r *GormRoomRepository) GetByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return toDomainRoom(&room), nil
}

func (r *GormRoomRepository) GetByCode(ctx context.Context, code string) (*domain.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return toDomainRoom(&room), nil
}

func (r *GormRoomRepository) Update(ctx context.Context, id uint, update domain.RoomUpdate) (*domain.Room, error) {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}

	res := r.db.WithContext(ctx).Model(&model.Room{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrRoomNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the room; rosters, images and every event stored under it
// go with it through the foreign key cascades.
func (r *GormRoomRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Room{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *GormRoomRepository) UpdateImageKey(ctx context.Context, id uint, key string) error {
	res := r.db.WithContext(ctx).Model(&model.Room{}).Where("id = ?", id).
		Updates(map[string]any{"image_key": key, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// AddMember puts the principal's profile on the room roster. Adding an
// existing member does nothing.
func (r *GormRoomRepository) AddMember(ctx context.Context, roomID uint, principalID uint, role domain.Role) error {
	db := r.db.WithContext(ctx)

	if err := db.Select("id").First(&model.Room{}, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	switch role {
	case domain.RoleStudent:
		var profile model.StudentProfile
		if err := db.Where("user_id = ?", principalID).First(&profile).Error; err != nil {
			return profileErr(err)
		}
		return db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.StudentRoom{StudentProfileID: profile.ID, RoomID: roomID}).Error
	case domain.RoleProfessor:
		var profile model.ProfessorProfile
		if err := db.Where("user_id = ?", principalID).First(&profile).Error; err != nil {
			return profileErr(err)
		}
		return db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.ProfessorRoom{ProfessorProfileID: profile.ID, RoomID: roomID}).Error
	default:
		return errors.New("unknown role " + string(role))
	}
}

func (r *GormRoomRepository) IsMember(ctx context.Context, roomID uint, principalID uint, role domain.Role) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx)
	switch role {
	case domain.RoleStudent:
		q = q.Model(&model.StudentRoom{}).
			Joins("JOIN student_profiles ON student_profiles.id = student_rooms.student_profile_id").
			Where("student_rooms.room_id = ? AND student_profiles.user_id = ?", roomID, principalID)
	case domain.RoleProfessor:
		q = q.Model(&model.ProfessorRoom{}).
			Joins("JOIN professor_profiles ON professor_profiles.id = professor_rooms.professor_profile_id").
			Where("professor_rooms.room_id = ? AND professor_profiles.user_id = ?", roomID, principalID)
	default:
		return false, nil
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type memberRow struct {
	UserID uint
	Handle *string
	Role   string
}

// ListMembers merges the student and professor rosters, professors first.
func (r *GormRoomRepository) ListMembers(ctx context.Context, roomID uint) ([]domain.Member, error) {
	db := r.db.WithContext(ctx)

	var professors []memberRow
	if err := db.Model(&model.User{}).
		Select("users.id AS user_id, users.handle, users.role").
		Joins("JOIN professor_profiles ON professor_profiles.user_id = users.id").
		Joins("JOIN professor_rooms ON professor_rooms.professor_profile_id = professor_profiles.id").
		Where("professor_rooms.room_id = ?", roomID).
		Order("users.id").
		Scan(&professors).Error; err != nil {
		return nil, err
	}

	var students []memberRow
	if err := db.Model(&model.User{}).
		Select("users.id AS user_id, users.handle, users.role").
		Joins("JOIN student_profiles ON student_profiles.user_id = users.id").
		Joins("JOIN student_rooms ON student_rooms.student_profile_id = student_profiles.id").
		Where("student_rooms.room_id = ?", roomID).
		Order("users.id").
		Scan(&students).Error; err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(professors)+len(students))
	for _, row := range append(professors, students...) {
		m := domain.Member{UserID: row.UserID, Role: domain.Role(row.Role)}
		if row.Handle != nil {
			m.Handle = *row.Handle
		}
		members = append(members, m)
	}
	return members, nil
}

func (r *GormRoomRepository) ListByMember(ctx context.Context, principalID uint, role domain.Role) ([]*domain.Room, error) {
	q := r.db.WithContext(ctx).Model(&model.Room{})
	switch role {
	case domain.RoleStudent:
		q = q.Joins("JOIN student_rooms ON student_rooms.room_id = rooms.id").
			Joins("JOIN student_profiles ON student_profiles.id = student_rooms.student_profile_id").
			Where("student_profiles.user_id = ?", principalID)
	case domain.RoleProfessor:
		q = q.Joins("JOIN professor_rooms ON professor_rooms.room_id = rooms.id").
			Joins("JOIN professor_profiles ON professor_profiles.id = professor_rooms.professor_profile_id").
			Where("professor_profiles.user_id = ?", principalID)
	default:
		return []*domain.Room{}, nil
	}

	var rooms []model.Room
	if err := q.Order("rooms.created_at DESC, rooms.id DESC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Room, 0, len(rooms))
	for i := range rooms {
		result = append(result, toDomainRoom(&rooms[i]))
	}
	return result, nil
}

func (r *GormRoomRepository) AddImage(ctx context.Context, image *domain.RoomImage) error {
	if image == nil {
		return errors.New("image is nil")
	}
	m := &model.RoomImage{RoomID: image.RoomID, UploaderID: image.UploaderID, ObjectKey: image.Key}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	image.ID = m.ID
	image.CreatedAt = m.CreatedAt.UTC()
	return nil
}

func (r *GormRoomRepository) ListImages(ctx context.Context, roomID uint) ([]*domain.RoomImage, error) {
	var images []model.RoomImage
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at, id").Find(&images).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.RoomImage, 0, len(images))
	for _, img := range images {
		result = append(result, &domain.RoomImage{
			ID:         img.ID,
			RoomID:     img.RoomID,
			UploaderID: img.UploaderID,
			Key:        img.ObjectKey,
			CreatedAt:  img.CreatedAt.UTC(),
		})
	}
	return result, nil
}

func profileErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPrincipalNotFound
	}
	return err
}

func toModelRoom(room *domain.Room) *model.Room {
	var imageKey *string
	if room.ImageKey != "" {
		k := room.ImageKey
		imageKey = &k
	}
	return &model.Room{
		ID:       room.ID,
		Code:     room.Code,
		Name:     room.Name,
		ImageKey: imageKey,
		IsActive: room.IsActive,
	}
}

func toDomainRoom(room *model.Room) *domain.Room {
	r := &domain.Room{
		ID:        room.ID,
		Code:      room.Code,
		Name:      room.Name,
		IsActive:  room.IsActive,
		CreatedAt: room.CreatedAt.UTC(),
		UpdatedAt: room.UpdatedAt.UTC(),
	}
	if room.ImageKey != nil {
		r.ImageKey = *room.ImageKey
	}
	return r
}
