package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
)

// urlRepository implements the URLRepository interface for PostgreSQL
type urlRepository struct {
	db *gorm.DB
}

// NewURLRepository creates a new PostgreSQL URL repository
func NewURLRepository(db *gorm.DB) repository.URLRepository {
	return &urlRepository{db: db}
}

// Create inserts a new URL record into the database
// Uses GORM's Create method with proper error handling
func (r *urlRepository) Create(ctx context.Context, url *domain.URL) error {
	result := r.db.WithContext(ctx).Create(url)
	if result.Error != nil {
		// Check for unique constraint violation (duplicate short code)
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrShortCodeTaken
		}
		return domain.NewInternalError(result.Error)
	}
	return nil
}

// FindByShortCode retrieves a URL by its short code
// Returns ErrURLNotFound if the code doesn't exist. Deactivated and expired
// records are returned as-is; lifecycle evaluation belongs to the resolver.
func (r *urlRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error) {
	var url domain.URL

	result := r.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		First(&url)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrURLNotFound
		}
		return nil, domain.NewInternalError(result.Error)
	}

	return &url, nil
}

// ExistsByShortCode checks if a short code exists without loading the full record
// More efficient than FindByShortCode when you only need existence check
func (r *urlRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.URL{}).
		Where("short_code = ?", shortCode).
		Count(&count)

	if result.Error != nil {
		return false, domain.NewInternalError(result.Error)
	}

	return count > 0, nil
}

// Deactivate flips is_active to false for a record the user owns.
// Ownership is part of the WHERE clause so another user's short code
// behaves exactly like a missing one.
func (r *urlRepository) Deactivate(ctx context.Context, shortCode string, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Model(&domain.URL{}).
		Where("short_code = ? AND owner_user_id = ?", shortCode, ownerID).
		Update("is_active", false)

	if result.Error != nil {
		return domain.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrURLNotFound
	}

	return nil
}

// CountAll returns the total number of URL records
func (r *urlRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.URL{}).
		Count(&count)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return count, nil
}

// SumClicks sums the click counters over the whole table in a single
// aggregate query
func (r *urlRepository) SumClicks(ctx context.Context) (int64, error) {
	var total int64

	result := r.db.WithContext(ctx).
		Model(&domain.URL{}).
		Select("COALESCE(SUM(clicks), 0)").
		Scan(&total)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return total, nil
}

// CountByOwner returns the number of URL records owned by a user
func (r *urlRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.URL{}).
		Where("owner_user_id = ?", ownerID).
		Count(&count)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return count, nil
}

// SumClicksByOwner sums click counters across one user's URLs
func (r *urlRepository) SumClicksByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var total int64

	result := r.db.WithContext(ctx).
		Model(&domain.URL{}).
		Select("COALESCE(SUM(clicks), 0)").
		Where("owner_user_id = ?", ownerID).
		Scan(&total)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return total, nil
}

// TopByOwner returns a user's most-clicked URLs, ties broken by recency
func (r *urlRepository) TopByOwner(ctx context.Context, ownerID uint, limit int) ([]domain.TopURL, error) {
	var top []domain.TopURL

	result := r.db.WithContext(ctx).
		Model(&domain.URL{}).
		Select("id, short_code, clicks").
		Where("owner_user_id = ?", ownerID).
		Order("clicks DESC, created_at DESC").
		Limit(limit).
		Scan(&top)

	if result.Error != nil {
		return nil, domain.NewInternalError(result.Error)
	}

	return top, nil
}
