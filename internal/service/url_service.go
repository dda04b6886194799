package service

import (
	"context"

	"shortlink/internal/domain"
)

// URLService defines the business logic interface for URL operations
// This layer orchestrates between repositories, cache, and the click recorder
type URLService interface {
	// ShortenURL creates a new shortened URL. ownerID is nil for anonymous links.
	ShortenURL(ctx context.Context, req *domain.CreateURLRequest, ownerID *uint) (*domain.CreateURLResponse, error)

	// Resolve looks up a short code, validates its lifecycle state and, on
	// success, dispatches exactly one fire-and-forget click recording before
	// returning the destination URL. Failures are typed: ErrURLNotFound,
	// ErrURLDeactivated or ErrURLExpired.
	Resolve(ctx context.Context, shortCode string, reqCtx domain.RequestContext) (string, error)

	// Deactivate disables an owned URL and purges its redirect-cache entry,
	// so subsequent resolutions see the Deactivated state immediately
	Deactivate(ctx context.Context, shortCode string, ownerID uint) error
}
