package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Location is the subset of geolocation data click analytics stores
type Location struct {
	Country string
	City    string
}

// Resolver maps a client IP to a location. Implementations are external
// collaborators; callers must tolerate failures and leave fields empty.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (Location, error)
}

// httpResolver looks up IPs against an ip-api style JSON endpoint
type httpResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver creates a resolver backed by an HTTP geolocation service.
// The timeout bounds the whole lookup; keep it short, this sits on the
// click-recording path.
func NewHTTPResolver(baseURL string, timeout time.Duration) Resolver {
	return &httpResolver{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// lookupResponse mirrors the ip-api JSON payload
type lookupResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
	Message string `json:"message,omitempty"`
}

// Resolve fetches the location for the given IP.
// Private and loopback addresses are skipped without a network call since
// the service cannot locate them anyway.
func (r *httpResolver) Resolve(ctx context.Context, ip string) (Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("invalid IP address: %q", ip)
	}
	if parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() {
		return Location{}, nil
	}

	endpoint := fmt.Sprintf("%s/%s", r.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Location{}, fmt.Errorf("building geo lookup request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geo lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Location{}, fmt.Errorf("decoding geo lookup response: %w", err)
	}

	if payload.Status != "" && payload.Status != "success" {
		return Location{}, fmt.Errorf("geo lookup rejected: %s", payload.Message)
	}

	return Location{
		Country: payload.Country,
		City:    payload.City,
	}, nil
}
