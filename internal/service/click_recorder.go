package service

import (
	"context"
	"time"

	"shortlink/internal/domain"
	"shortlink/internal/geo"
	"shortlink/internal/repository"
	"shortlink/internal/useragent"
	"shortlink/pkg/logger"
)

// ClickRecorder ingests a raw request context, classifies it and durably
// appends a click event for a URL record.
type ClickRecorder interface {
	// Record classifies and persists one click event synchronously
	Record(ctx context.Context, urlID uint, reqCtx domain.RequestContext) error

	// RecordAsync dispatches Record on a detached background goroutine.
	// Errors are logged and discarded; the caller never waits. In-flight
	// recordings may be abandoned at process shutdown.
	RecordAsync(urlID uint, reqCtx domain.RequestContext)
}

// clickRecorder implements ClickRecorder
type clickRecorder struct {
	clicks  repository.ClickRepository
	geo     geo.Resolver
	logger  *logger.Logger
	timeout time.Duration
}

// NewClickRecorder creates a click recorder. The geo resolver may be nil,
// in which case country/city are left empty.
func NewClickRecorder(
	clicks repository.ClickRepository,
	geoResolver geo.Resolver,
	logger *logger.Logger,
	timeout time.Duration,
) ClickRecorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &clickRecorder{
		clicks:  clicks,
		geo:     geoResolver,
		logger:  logger,
		timeout: timeout,
	}
}

// Record builds a click event from the request context and persists it.
// The event insert and the counter increment happen in one repository
// transaction. Classification failures degrade to empty/unknown fields,
// they never fail the recording.
func (r *clickRecorder) Record(ctx context.Context, urlID uint, reqCtx domain.RequestContext) error {
	event := &domain.ClickEvent{
		URLID:     urlID,
		Timestamp: time.Now().UTC(),
		IPAddress: reqCtx.IPAddress,
		UserAgent: reqCtx.UserAgent,
		Referrer:  reqCtx.Referrer,
	}

	classification := useragent.Classify(reqCtx.UserAgent)
	event.Device = classification.Device
	event.Browser = classification.Browser
	event.OS = classification.OS

	if r.geo != nil && reqCtx.IPAddress != "" {
		location, err := r.geo.Resolve(ctx, reqCtx.IPAddress)
		if err != nil {
			// Lookup failure leaves country/city empty
			r.logger.Warn("Geo lookup failed", "ip", reqCtx.IPAddress, "error", err)
		} else {
			event.Country = location.Country
			event.City = location.City
		}
	}

	if err := r.clicks.Append(ctx, event); err != nil {
		return err
	}

	return nil
}

// RecordAsync runs Record in the background with its own timeout context so
// the redirect response never waits on classification or persistence.
func (r *clickRecorder) RecordAsync(urlID uint, reqCtx domain.RequestContext) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("Click recording panicked", "url_id", urlID, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.Record(ctx, urlID, reqCtx); err != nil {
			r.logger.Error("Failed to record click", "url_id", urlID, "error", err)
		}
	}()
}
