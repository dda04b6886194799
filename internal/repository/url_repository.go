package repository

import (
	"context"

	"shortlink/internal/domain"
)

// URLRepository defines the contract for URL record access
// This interface allows us to swap implementations (PostgreSQL, MySQL, etc.)
// without changing business logic - following Dependency Inversion Principle
type URLRepository interface {
	// Create stores a new shortened URL in the database
	Create(ctx context.Context, url *domain.URL) error

	// FindByShortCode retrieves a URL by its short code (case-sensitive,
	// regardless of lifecycle state so callers can tell deactivated from absent)
	FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error)

	// ExistsByShortCode checks if a short code exists without fetching data
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)

	// Deactivate clears the is_active flag on a URL owned by the given user.
	// Returns ErrURLNotFound when no record matches both short code and owner.
	Deactivate(ctx context.Context, shortCode string, ownerID uint) error

	// CountAll returns the total number of URL records
	CountAll(ctx context.Context) (int64, error)

	// SumClicks returns the sum of click counters across all URL records
	SumClicks(ctx context.Context) (int64, error)

	// CountByOwner returns the number of URL records owned by a user
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)

	// SumClicksByOwner returns the summed click counters of a user's URLs
	SumClicksByOwner(ctx context.Context, ownerID uint) (int64, error)

	// TopByOwner returns a user's URLs ordered by clicks descending,
	// ties broken by most recent creation
	TopByOwner(ctx context.Context, ownerID uint, limit int) ([]domain.TopURL, error)
}
