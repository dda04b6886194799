package postgres

import (
	"context"

	"gorm.io/gorm"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
)

// userDirectory reads the user table owned by the account service.
// This service only ever counts it.
type userDirectory struct {
	db *gorm.DB
}

// NewUserDirectory creates a read-only view over the external user store
func NewUserDirectory(db *gorm.DB) repository.UserDirectory {
	return &userDirectory{db: db}
}

// CountUsers returns the total number of registered users
func (d *userDirectory) CountUsers(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Table("users").
		Count(&count)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return count, nil
}
