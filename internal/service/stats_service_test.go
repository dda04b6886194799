package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shortlink/internal/config"
	"shortlink/internal/domain"
	"shortlink/internal/service"
	"shortlink/pkg/logger"
)

// MockUserDirectory is a mock implementation of UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newStatsConfig(cacheTTL time.Duration) *config.Config {
	return &config.Config{
		BaseURL:            "https://sl.test",
		ShortCodeLength:    6,
		TopURLsLimit:       5,
		RecentClicksWindow: 7 * 24 * time.Hour,
		StatsCacheTTL:      cacheTTL,
	}
}

func TestGetUserStats_Composition(t *testing.T) {
	urls := new(MockURLRepository)
	clicks := new(MockClickRepository)
	users := new(MockUserDirectory)
	svc := service.NewStatsService(urls, clicks, users, newStatsConfig(5*time.Minute), logger.NewLogger(), time.Now())
	ctx := context.Background()

	top := []domain.TopURL{
		{ID: 1, ShortCode: "a", Clicks: 50},
		{ID: 2, ShortCode: "b", Clicks: 30},
		{ID: 3, ShortCode: "c", Clicks: 10},
	}

	urls.On("CountByOwner", ctx, uint(42)).Return(int64(3), nil)
	urls.On("SumClicksByOwner", ctx, uint(42)).Return(int64(90), nil)
	clicks.On("CountRecentByOwner", ctx, uint(42), mock.AnythingOfType("time.Time")).Return(int64(12), nil)
	urls.On("TopByOwner", ctx, uint(42), 5).Return(top, nil)

	stats, err := svc.GetUserStats(ctx, 42)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalURLs)
	assert.Equal(t, int64(90), stats.TotalClicks)
	assert.Equal(t, int64(12), stats.RecentClicks)
	assert.Equal(t, top, stats.TopURLs, "top URLs keep the clicks-descending order from the store")

	urls.AssertExpectations(t)
	clicks.AssertExpectations(t)
}

func TestGetUserStats_EmptyTopList(t *testing.T) {
	urls := new(MockURLRepository)
	clicks := new(MockClickRepository)
	users := new(MockUserDirectory)
	svc := service.NewStatsService(urls, clicks, users, newStatsConfig(5*time.Minute), logger.NewLogger(), time.Now())
	ctx := context.Background()

	urls.On("CountByOwner", ctx, uint(7)).Return(int64(0), nil)
	urls.On("SumClicksByOwner", ctx, uint(7)).Return(int64(0), nil)
	clicks.On("CountRecentByOwner", ctx, uint(7), mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	urls.On("TopByOwner", ctx, uint(7), 5).Return(nil, nil)

	stats, err := svc.GetUserStats(ctx, 7)

	assert.NoError(t, err)
	assert.NotNil(t, stats.TopURLs, "empty list serializes as [], not null")
	assert.Len(t, stats.TopURLs, 0)
}

func TestGetGlobalStats_Compute(t *testing.T) {
	urls := new(MockURLRepository)
	clicks := new(MockClickRepository)
	users := new(MockUserDirectory)
	svc := service.NewStatsService(urls, clicks, users, newStatsConfig(5*time.Minute), logger.NewLogger(), time.Now().Add(-time.Minute))
	ctx := context.Background()

	urls.On("CountAll", ctx).Return(int64(120), nil)
	urls.On("SumClicks", ctx).Return(int64(4500), nil)
	users.On("CountUsers", ctx).Return(int64(17), nil)
	clicks.On("CountDistinctCountries", ctx).Return(int64(23), nil)

	stats, err := svc.GetGlobalStats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(120), stats.TotalURLs)
	assert.Equal(t, int64(4500), stats.TotalClicks)
	assert.Equal(t, int64(17), stats.TotalUsers)
	assert.Equal(t, int64(23), stats.UniqueCountries)
	assert.NotEmpty(t, stats.Uptime)
}

func TestGetGlobalStats_ServedFromCacheWithinWindow(t *testing.T) {
	urls := new(MockURLRepository)
	clicks := new(MockClickRepository)
	users := new(MockUserDirectory)
	svc := service.NewStatsService(urls, clicks, users, newStatsConfig(5*time.Minute), logger.NewLogger(), time.Now())
	ctx := context.Background()

	urls.On("CountAll", ctx).Return(int64(1), nil).Once()
	urls.On("SumClicks", ctx).Return(int64(2), nil).Once()
	users.On("CountUsers", ctx).Return(int64(3), nil).Once()
	clicks.On("CountDistinctCountries", ctx).Return(int64(4), nil).Once()

	first, err := svc.GetGlobalStats(ctx)
	assert.NoError(t, err)

	// Second call inside the staleness window must not touch the stores
	second, err := svc.GetGlobalStats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first.TotalURLs, second.TotalURLs)
	assert.Equal(t, first.TotalClicks, second.TotalClicks)

	urls.AssertExpectations(t)
	users.AssertExpectations(t)
	clicks.AssertExpectations(t)
}

func TestGetGlobalStats_RecomputesAfterWindow(t *testing.T) {
	urls := new(MockURLRepository)
	clicks := new(MockClickRepository)
	users := new(MockUserDirectory)
	// Zero TTL: every call is past the staleness window
	svc := service.NewStatsService(urls, clicks, users, newStatsConfig(0), logger.NewLogger(), time.Now())
	ctx := context.Background()

	urls.On("CountAll", ctx).Return(int64(1), nil).Twice()
	urls.On("SumClicks", ctx).Return(int64(2), nil).Twice()
	users.On("CountUsers", ctx).Return(int64(3), nil).Twice()
	clicks.On("CountDistinctCountries", ctx).Return(int64(4), nil).Twice()

	_, err := svc.GetGlobalStats(ctx)
	assert.NoError(t, err)
	_, err = svc.GetGlobalStats(ctx)
	assert.NoError(t, err)

	urls.AssertExpectations(t)
}
