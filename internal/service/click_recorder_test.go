package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shortlink/internal/domain"
	"shortlink/internal/geo"
	"shortlink/internal/service"
	"shortlink/pkg/logger"
)

// MockClickRepository is a mock implementation of ClickRepository
type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) Append(ctx context.Context, event *domain.ClickEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockClickRepository) CountRecentByOwner(ctx context.Context, ownerID uint, since time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClickRepository) CountDistinctCountries(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakeGeoResolver returns canned locations or errors
type fakeGeoResolver struct {
	location geo.Location
	err      error
}

func (f *fakeGeoResolver) Resolve(ctx context.Context, ip string) (geo.Location, error) {
	return f.location, f.err
}

const desktopChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestRecord_ClassifiesAndPersists(t *testing.T) {
	clicks := new(MockClickRepository)
	geoRes := &fakeGeoResolver{location: geo.Location{Country: "Germany", City: "Berlin"}}
	recorder := service.NewClickRecorder(clicks, geoRes, logger.NewLogger(), time.Second)

	var captured *domain.ClickEvent
	clicks.On("Append", mock.Anything, mock.AnythingOfType("*domain.ClickEvent")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.ClickEvent)
		}).
		Return(nil)

	err := recorder.Record(context.Background(), 9, domain.RequestContext{
		IPAddress: "203.0.113.9",
		UserAgent: desktopChromeUA,
		Referrer:  "https://news.example.org/",
	})

	assert.NoError(t, err)
	assert.NotNil(t, captured)
	assert.Equal(t, uint(9), captured.URLID)
	assert.Equal(t, "203.0.113.9", captured.IPAddress)
	assert.Equal(t, "https://news.example.org/", captured.Referrer)
	assert.Equal(t, domain.DeviceDesktop, captured.Device)
	assert.Equal(t, "Chrome", captured.Browser)
	assert.Equal(t, "Windows", captured.OS)
	assert.Equal(t, "Germany", captured.Country)
	assert.Equal(t, "Berlin", captured.City)
	assert.False(t, captured.Timestamp.IsZero())

	clicks.AssertExpectations(t)
}

func TestRecord_GeoFailureLeavesLocationEmpty(t *testing.T) {
	clicks := new(MockClickRepository)
	geoRes := &fakeGeoResolver{err: errors.New("lookup timed out")}
	recorder := service.NewClickRecorder(clicks, geoRes, logger.NewLogger(), time.Second)

	var captured *domain.ClickEvent
	clicks.On("Append", mock.Anything, mock.AnythingOfType("*domain.ClickEvent")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.ClickEvent)
		}).
		Return(nil)

	err := recorder.Record(context.Background(), 4, domain.RequestContext{
		IPAddress: "203.0.113.44",
		UserAgent: desktopChromeUA,
	})

	assert.NoError(t, err, "geo failure must not fail the recording")
	assert.Empty(t, captured.Country)
	assert.Empty(t, captured.City)
}

func TestRecord_NilGeoResolver(t *testing.T) {
	clicks := new(MockClickRepository)
	recorder := service.NewClickRecorder(clicks, nil, logger.NewLogger(), time.Second)

	clicks.On("Append", mock.Anything, mock.AnythingOfType("*domain.ClickEvent")).Return(nil)

	err := recorder.Record(context.Background(), 1, domain.RequestContext{IPAddress: "203.0.113.1"})

	assert.NoError(t, err)
	clicks.AssertExpectations(t)
}

func TestRecord_UnknownUserAgent(t *testing.T) {
	clicks := new(MockClickRepository)
	recorder := service.NewClickRecorder(clicks, nil, logger.NewLogger(), time.Second)

	var captured *domain.ClickEvent
	clicks.On("Append", mock.Anything, mock.AnythingOfType("*domain.ClickEvent")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*domain.ClickEvent)
		}).
		Return(nil)

	err := recorder.Record(context.Background(), 2, domain.RequestContext{UserAgent: "weird-client/0.1"})

	assert.NoError(t, err)
	assert.Equal(t, domain.DeviceUnknown, captured.Device)
	assert.Equal(t, "unknown", captured.Browser)
	assert.Equal(t, "unknown", captured.OS)
}

func TestRecord_PersistenceErrorPropagates(t *testing.T) {
	clicks := new(MockClickRepository)
	recorder := service.NewClickRecorder(clicks, nil, logger.NewLogger(), time.Second)

	clicks.On("Append", mock.Anything, mock.Anything).Return(errors.New("store unavailable"))

	err := recorder.Record(context.Background(), 3, domain.RequestContext{})

	assert.Error(t, err)
}

func TestRecordAsync_CompletesInBackground(t *testing.T) {
	clicks := new(MockClickRepository)
	recorder := service.NewClickRecorder(clicks, nil, logger.NewLogger(), time.Second)

	done := make(chan struct{})
	clicks.On("Append", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(nil)

	recorder.RecordAsync(6, domain.RequestContext{IPAddress: "203.0.113.6"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background recording never reached the store")
	}
}

func TestRecordAsync_SwallowsErrors(t *testing.T) {
	clicks := new(MockClickRepository)
	recorder := service.NewClickRecorder(clicks, nil, logger.NewLogger(), time.Second)

	done := make(chan struct{})
	clicks.On("Append", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(errors.New("store unavailable"))

	// Must not panic or surface the error anywhere
	recorder.RecordAsync(8, domain.RequestContext{})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background recording never reached the store")
	}
}
