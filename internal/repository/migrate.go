package repository

import (
	"github.com/immxrtalbeast/classroom_live/internal/repository/model"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}
