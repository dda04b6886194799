package domain

// TopURL is a single entry in a user's most-clicked list
type TopURL struct {
	ID        uint   `json:"id"`
	ShortCode string `json:"short_code"`
	Clicks    int64  `json:"clicks"`
}

// UserStats aggregates a single user's URLs and clicks.
// Computed fresh on every query.
type UserStats struct {
	TotalURLs    int64    `json:"total_urls"`
	TotalClicks  int64    `json:"total_clicks"`
	RecentClicks int64    `json:"recent_clicks"` // Clicks within the configured window
	TopURLs      []TopURL `json:"top_urls"`
}

// GlobalStats aggregates the whole dataset for the public stats endpoint.
// May be served from a bounded-staleness cache.
type GlobalStats struct {
	TotalURLs       int64  `json:"total_urls"`
	TotalClicks     int64  `json:"total_clicks"`
	TotalUsers      int64  `json:"total_users"`
	UniqueCountries int64  `json:"unique_countries"`
	Uptime          string `json:"uptime"` // Reported from process start, not computed from data
}
