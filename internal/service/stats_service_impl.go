package service

import (
	"context"
	"sync"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/domain"
	"shortlink/internal/repository"
	"shortlink/pkg/logger"
)

// statsService implements StatsService.
// Every metric is a single aggregate query against the store; nothing
// iterates records in application code.
type statsService struct {
	urls   repository.URLRepository
	clicks repository.ClickRepository
	users  repository.UserDirectory
	logger *logger.Logger

	topLimit     int
	recentWindow time.Duration
	startedAt    time.Time

	// Single process-wide cache entry for global stats with a TTL check.
	// Bounded staleness makes a plain mutex sufficient.
	cacheTTL time.Duration
	mu       sync.Mutex
	cached   *domain.GlobalStats
	cachedAt time.Time
}

// NewStatsService creates the analytics aggregator. startedAt feeds the
// operationally-reported uptime field.
func NewStatsService(
	urls repository.URLRepository,
	clicks repository.ClickRepository,
	users repository.UserDirectory,
	cfg *config.Config,
	logger *logger.Logger,
	startedAt time.Time,
) StatsService {
	return &statsService{
		urls:         urls,
		clicks:       clicks,
		users:        users,
		logger:       logger,
		topLimit:     cfg.TopURLsLimit,
		recentWindow: cfg.RecentClicksWindow,
		cacheTTL:     cfg.StatsCacheTTL,
		startedAt:    startedAt,
	}
}

// GetUserStats computes a user's dashboard figures fresh on every call
func (s *statsService) GetUserStats(ctx context.Context, userID uint) (*domain.UserStats, error) {
	totalURLs, err := s.urls.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalClicks, err := s.urls.SumClicksByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-s.recentWindow)
	recentClicks, err := s.clicks.CountRecentByOwner(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	topURLs, err := s.urls.TopByOwner(ctx, userID, s.topLimit)
	if err != nil {
		return nil, err
	}
	if topURLs == nil {
		topURLs = []domain.TopURL{}
	}

	return &domain.UserStats{
		TotalURLs:    totalURLs,
		TotalClicks:  totalClicks,
		RecentClicks: recentClicks,
		TopURLs:      topURLs,
	}, nil
}

// GetGlobalStats returns the public stats payload, recomputing it only when
// the cached copy is older than the staleness window
func (s *statsService) GetGlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cachedAt) < s.cacheTTL {
		stats := *s.cached
		return &stats, nil
	}

	stats, err := s.computeGlobalStats(ctx)
	if err != nil {
		return nil, err
	}

	s.cached = stats
	s.cachedAt = time.Now()

	copied := *stats
	return &copied, nil
}

func (s *statsService) computeGlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	totalURLs, err := s.urls.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	// Sum over the persisted counters, not the event log: the counter is the
	// source of truth the redirect path maintains.
	totalClicks, err := s.urls.SumClicks(ctx)
	if err != nil {
		return nil, err
	}

	totalUsers, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	uniqueCountries, err := s.clicks.CountDistinctCountries(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.GlobalStats{
		TotalURLs:       totalURLs,
		TotalClicks:     totalClicks,
		TotalUsers:      totalUsers,
		UniqueCountries: uniqueCountries,
		Uptime:          time.Since(s.startedAt).Truncate(time.Second).String(),
	}, nil
}
