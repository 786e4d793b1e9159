package sqlite

import (
	"time"

	"lawdesk/internal/domain/entity"
	"lawdesk/internal/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Init(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&entity.Case{}, &entity.User{})
	if err != nil {
		return nil, err
	}

	// Single writer; the file is the shared resource, not the pool.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// SeedOwner creates the bootstrap owner account on first run.
//
// Insert-or-ignore keyed on username: if the account already exists,
// nothing is touched, so a password changed later is never reset.
func SeedOwner(db *gorm.DB, username, password, displayName string) error {
	var count int64
	err := db.Model(&entity.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	now := utils.NowUTC()
	owner := &entity.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         entity.RoleOwner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return db.Create(owner).Error
}
