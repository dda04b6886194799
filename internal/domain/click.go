package domain

import (
	"time"
)

// Device categories produced by user-agent classification
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// ClickEvent represents a single recorded visit against a short code.
// Immutable once written; always belongs to exactly one URL record.
type ClickEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URLID     uint      `gorm:"not null;index" json:"url_id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	// Raw request data, kept as received
	IPAddress string `gorm:"size:45" json:"ip_address,omitempty"` // IPv6 max length
	UserAgent string `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer  string `gorm:"type:text" json:"referrer,omitempty"`

	// Derived from IP via geo lookup; empty when the lookup fails
	Country string `gorm:"size:100;index" json:"country,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`

	// Derived from User-Agent via rule-based classification
	Device  string `gorm:"size:20" json:"device,omitempty"`
	Browser string `gorm:"size:50" json:"browser,omitempty"`
	OS      string `gorm:"size:50" json:"os,omitempty"`
}

// TableName specifies the table name for GORM
func (ClickEvent) TableName() string {
	return "click_events"
}

// RequestContext carries the raw request attributes the Click Recorder
// classifies. Captured in the handler so recording can outlive the request.
type RequestContext struct {
	IPAddress string
	UserAgent string
	Referrer  string
}
