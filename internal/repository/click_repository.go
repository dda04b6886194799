package repository

import (
	"context"
	"time"

	"shortlink/internal/domain"
)

// ClickRepository defines the contract for click event access
type ClickRepository interface {
	// Append durably writes a click event and increments the owning URL's
	// click counter in the same transaction. The increment is an atomic
	// SQL update, never read-modify-write in application code.
	Append(ctx context.Context, event *domain.ClickEvent) error

	// CountRecentByOwner counts click events since the given instant across
	// all URLs owned by a user
	CountRecentByOwner(ctx context.Context, ownerID uint, since time.Time) (int64, error)

	// CountDistinctCountries counts distinct non-empty country values
	// across all click events
	CountDistinctCountries(ctx context.Context) (int64, error)
}

// UserDirectory exposes the external user store. Only the aggregate count is
// consumed here; account management lives in another service.
type UserDirectory interface {
	CountUsers(ctx context.Context) (int64, error)
}
