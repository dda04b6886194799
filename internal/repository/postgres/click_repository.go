package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
)

// clickRepository implements the ClickRepository interface for PostgreSQL
type clickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates a new PostgreSQL click event repository
func NewClickRepository(db *gorm.DB) repository.ClickRepository {
	return &clickRepository{db: db}
}

// Append writes the click event and increments the URL's click counter as a
// single transaction, so the event log and the counter cannot diverge.
// The increment uses a SQL expression to stay atomic under concurrency.
func (r *clickRepository) Append(ctx context.Context, event *domain.ClickEvent) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		result := tx.Model(&domain.URL{}).
			Where("id = ?", event.URLID).
			Update("clicks", gorm.Expr("clicks + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrURLNotFound
		}
		return domain.NewInternalError(err)
	}

	return nil
}

// CountRecentByOwner counts clicks since the given instant over a user's URLs
// with a single joined aggregate query
func (r *clickRepository) CountRecentByOwner(ctx context.Context, ownerID uint, since time.Time) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.ClickEvent{}).
		Joins("JOIN urls ON urls.id = click_events.url_id").
		Where("urls.owner_user_id = ? AND click_events.timestamp >= ?", ownerID, since).
		Count(&count)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return count, nil
}

// CountDistinctCountries counts distinct non-empty countries across all events
func (r *clickRepository) CountDistinctCountries(ctx context.Context) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&domain.ClickEvent{}).
		Select("COUNT(DISTINCT country)").
		Where("country <> ''").
		Scan(&count)

	if result.Error != nil {
		return 0, domain.NewInternalError(result.Error)
	}

	return count, nil
}
