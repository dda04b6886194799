package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shortlink/internal/cache"
	"shortlink/internal/config"
	"shortlink/internal/domain"
	"shortlink/internal/repository"
	"shortlink/internal/shortener"
	"shortlink/pkg/logger"
	"shortlink/pkg/validator"
)

// urlService implements the URLService interface
type urlService struct {
	repo      repository.URLRepository
	recorder  ClickRecorder
	cache     cache.Cache
	cfg       *config.Config
	logger    *logger.Logger
	generator *shortener.CodeGenerator
}

// NewURLService creates a new URL service with dependencies injected
func NewURLService(
	repo repository.URLRepository,
	recorder ClickRecorder,
	cache cache.Cache,
	cfg *config.Config,
	logger *logger.Logger,
) URLService {
	return &urlService{
		repo:      repo,
		recorder:  recorder,
		cache:     cache,
		cfg:       cfg,
		logger:    logger,
		generator: shortener.NewCodeGenerator(cfg.ShortCodeLength),
	}
}

// cachedRecord is the redirect-path cache entry. Only what the hot path
// needs: the record id for click attribution and the destination.
type cachedRecord struct {
	ID      uint   `json:"id"`
	LongURL string `json:"long_url"`
}

// ShortenURL creates a new shortened URL with validation
func (s *urlService) ShortenURL(ctx context.Context, req *domain.CreateURLRequest, ownerID *uint) (*domain.CreateURLResponse, error) {
	// Step 1: Validate the original URL
	if err := validator.ValidateURL(req.URL); err != nil {
		s.logger.Warn("Invalid URL provided", "url", req.URL, "error", err)
		return nil, domain.NewValidationError("Invalid URL format")
	}

	// Step 2: Normalize URL (add https:// if missing, remove trailing slash)
	normalizedURL := validator.NormalizeURL(req.URL)

	// Step 3: Generate or validate custom short code
	var shortCode string
	if req.CustomAlias != "" {
		// Validate custom alias format
		if !validator.ValidateShortCode(req.CustomAlias) {
			return nil, domain.NewValidationError("Custom alias contains invalid characters")
		}

		// Check if custom alias is already taken
		exists, err := s.repo.ExistsByShortCode(ctx, req.CustomAlias)
		if err != nil {
			s.logger.Error("Failed to check short code existence", "error", err)
			return nil, domain.NewInternalError(err)
		}
		if exists {
			return nil, domain.ErrShortCodeTaken
		}

		shortCode = req.CustomAlias
	} else {
		// Generate unique short code with collision handling
		generated, err := s.generateUniqueShortCode(ctx)
		if err != nil {
			s.logger.Error("Failed to generate short code", "error", err)
			return nil, domain.NewInternalError(err)
		}
		shortCode = generated
	}

	// Step 4: Calculate expiration date if specified
	var expiresAt *time.Time
	if req.ExpiryDays > 0 {
		expiry := time.Now().AddDate(0, 0, req.ExpiryDays)
		expiresAt = &expiry
	} else if s.cfg.URLExpirationDays > 0 {
		// Use default expiration from config
		expiry := time.Now().AddDate(0, 0, s.cfg.URLExpirationDays)
		expiresAt = &expiry
	}

	// Step 5: Create URL entity
	url := &domain.URL{
		ShortCode:   shortCode,
		LongURL:     normalizedURL,
		OwnerUserID: ownerID,
		ExpiresAt:   expiresAt,
		IsActive:    true,
		Clicks:      0,
	}

	// Step 6: Save to database
	if err := s.repo.Create(ctx, url); err != nil {
		s.logger.Error("Failed to create URL", "error", err, "short_code", shortCode)
		return nil, err
	}

	s.logger.Info("URL shortened successfully",
		"short_code", shortCode,
		"long_url", normalizedURL,
		"custom", req.CustomAlias != "",
	)

	return &domain.CreateURLResponse{
		ShortCode: url.ShortCode,
		ShortURL:  fmt.Sprintf("%s/%s", s.cfg.BaseURL, url.ShortCode),
		LongURL:   url.LongURL,
		CreatedAt: url.CreatedAt,
		ExpiresAt: url.ExpiresAt,
	}, nil
}

// Resolve looks up the destination for a short code.
// The short code is matched verbatim: no normalization, case-sensitive.
// Uses cache-aside on the hot path; a cache hit still dispatches exactly one
// click recording, and the stored value is returned unmodified.
func (s *urlService) Resolve(ctx context.Context, shortCode string, reqCtx domain.RequestContext) (string, error) {
	// Step 1: Try the cache first (fast path)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, shortCode)
		if err == nil && raw != "" {
			var entry cachedRecord
			if err := json.Unmarshal([]byte(raw), &entry); err == nil {
				s.recorder.RecordAsync(entry.ID, reqCtx)
				s.logger.Debug("Cache hit", "short_code", shortCode)
				return entry.LongURL, nil
			}
		}
	}

	// Step 2: Cache miss or no cache - query database
	url, err := s.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		return "", err
	}

	// Step 3: Lifecycle validation. Deactivation is checked before expiry;
	// no click is recorded on any failure.
	switch url.State(time.Now()) {
	case domain.StateDeactivated:
		s.logger.Info("Attempted to access deactivated URL", "short_code", shortCode)
		return "", domain.ErrURLDeactivated
	case domain.StateExpired:
		s.logger.Info("Attempted to access expired URL", "short_code", shortCode)
		return "", domain.ErrURLExpired
	}

	// Step 4: Fire-and-forget click recording; the redirect never waits on it
	s.recorder.RecordAsync(url.ID, reqCtx)

	// Step 5: Populate cache for future requests. The TTL is capped by the
	// record's expiry so a cached entry cannot outlive the Expired state.
	s.cacheRecord(ctx, url)

	return url.LongURL, nil
}

// Deactivate disables an owned URL and invalidates its cache entry.
// The purge keeps the redirect path honest: without it a record cached while
// active would keep being served until its TTL ran out.
func (s *urlService) Deactivate(ctx context.Context, shortCode string, ownerID uint) error {
	if err := s.repo.Deactivate(ctx, shortCode, ownerID); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, shortCode); err != nil {
			s.logger.Warn("Failed to delete from cache", "error", err, "short_code", shortCode)
		}
	}

	s.logger.Info("URL deactivated", "short_code", shortCode, "owner_id", ownerID)
	return nil
}

func (s *urlService) cacheRecord(ctx context.Context, url *domain.URL) {
	if s.cache == nil {
		return
	}

	ttl := s.cfg.CacheTTL
	if url.ExpiresAt != nil {
		if until := time.Until(*url.ExpiresAt); until < ttl {
			ttl = until
		}
	}
	if ttl <= 0 {
		return
	}

	entry, err := json.Marshal(cachedRecord{ID: url.ID, LongURL: url.LongURL})
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, url.ShortCode, string(entry), ttl); err != nil {
		// Log cache error but don't fail the request
		s.logger.Warn("Failed to cache URL", "error", err, "short_code", url.ShortCode)
	}
}

// generateUniqueShortCode generates a short code and ensures it's unique
// Implements collision handling with retry logic
func (s *urlService) generateUniqueShortCode(ctx context.Context) (string, error) {
	const maxRetries = 5

	for i := 0; i < maxRetries; i++ {
		// Generate random short code
		shortCode := s.generator.Generate()

		// Check if it already exists
		exists, err := s.repo.ExistsByShortCode(ctx, shortCode)
		if err != nil {
			return "", err
		}

		if !exists {
			return shortCode, nil
		}

		// Collision detected, log and retry
		s.logger.Warn("Short code collision detected, retrying",
			"short_code", shortCode,
			"attempt", i+1,
		)
	}

	return "", fmt.Errorf("failed to generate unique short code after %d attempts", maxRetries)
}
