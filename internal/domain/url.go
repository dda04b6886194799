package domain

import (
	"time"
)

// LifecycleState classifies a URL record at read time.
// Expired is derived from ExpiresAt vs the clock, never stored.
type LifecycleState string

const (
	StateActive      LifecycleState = "active"
	StateDeactivated LifecycleState = "deactivated"
	StateExpired     LifecycleState = "expired"
)

// URL represents a shortened URL entry in the system
// This is the core domain entity that models our business concept
type URL struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ShortCode   string     `gorm:"uniqueIndex;not null;size:50" json:"short_code"`
	LongURL     string     `gorm:"not null;type:text" json:"long_url"`
	OwnerUserID *uint      `gorm:"index" json:"owner_user_id,omitempty"` // Nullable for anonymous links
	Clicks      int64      `gorm:"default:0" json:"clicks"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at,omitempty"` // Nullable for non-expiring URLs
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (URL) TableName() string {
	return "urls"
}

// IsExpired checks if the URL has expired at the given instant
func (u *URL) IsExpired(now time.Time) bool {
	if u.ExpiresAt == nil {
		return false // Never expires
	}
	return now.After(*u.ExpiresAt)
}

// State evaluates the lifecycle state at the given instant.
// Deactivation wins over expiry: an explicitly disabled record reports
// Deactivated regardless of ExpiresAt.
func (u *URL) State(now time.Time) LifecycleState {
	if !u.IsActive {
		return StateDeactivated
	}
	if u.IsExpired(now) {
		return StateExpired
	}
	return StateActive
}

// CreateURLRequest represents the request payload for creating a short URL
type CreateURLRequest struct {
	URL         string `json:"url" binding:"required"` // Original URL to shorten
	CustomAlias string `json:"custom_alias,omitempty"` // Optional custom short code
	ExpiryDays  int    `json:"expiry_days,omitempty"`  // Optional expiration in days
}

// CreateURLResponse represents the response after creating a short URL
type CreateURLResponse struct {
	ShortCode string     `json:"short_code"`
	ShortURL  string     `json:"short_url"` // Full shortened URL
	LongURL   string     `json:"long_url"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
