package service

import (
	"context"

	"shortlink/internal/domain"
)

// StatsService computes per-user and global statistics from the URL and
// click stores. Read-only; runs independently of the redirect path.
type StatsService interface {
	// GetUserStats aggregates one user's URLs and clicks, always fresh
	GetUserStats(ctx context.Context, userID uint) (*domain.UserStats, error)

	// GetGlobalStats aggregates the whole dataset. May serve a cached value
	// within the configured staleness window.
	GetGlobalStats(ctx context.Context) (*domain.GlobalStats, error)
}
