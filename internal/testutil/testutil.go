// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// CreatePrincipal inserts a user with a profile for the role and returns it.
func CreatePrincipal(t *testing.T, db *gorm.DB, role domain.Role, handle string) *domain.Principal {
	t.Helper()

	h := handle
	user := &model.User{Name: handle, Handle: &h, PasswordHash: "x", Role: string(role)}
	require.NoError(t, db.Create(user).Error)

	number := fmt.Sprintf("%s-%d", role, user.ID)
	switch role {
	case domain.RoleStudent:
		require.NoError(t, db.Create(&model.StudentProfile{StudentNo: number, UserID: user.ID}).Error)
	case domain.RoleProfessor:
		require.NoError(t, db.Create(&model.ProfessorProfile{ProfessorNo: number, UserID: user.ID}).Error)
	}

	return &domain.Principal{
		ID:                  user.ID,
		Name:                user.Name,
		Handle:              handle,
		Role:                role,
		InstitutionalNumber: number,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
}

// CreateRoom inserts a room with the given code.
func CreateRoom(t *testing.T, db *gorm.DB, code string) *domain.Room {
	t.Helper()

	room := &model.Room{Code: code, Name: "room " + code, IsActive: true}
	require.NoError(t, db.Create(room).Error)
	return &domain.Room{
		ID:        room.ID,
		Code:      room.Code,
		Name:      room.Name,
		IsActive:  true,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}
