package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/netra/internal/models"
)

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr("find user", err)
	}
	return &user, nil
}

// UpsertUser inserts u or overwrites the row with the same username.
func (r *GormRepo) UpsertUser(ctx context.Context, u *models.User) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "department", "assigned_class", "full_name"}),
	}).Create(u).Error
	if err != nil {
		return storageErr("upsert user", err)
	}
	return nil
}
