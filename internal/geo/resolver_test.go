package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolve_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/203.0.113.9", r.URL.Path)
		fmt.Fprint(w, `{"status":"success","country":"Germany","city":"Berlin"}`)
	}))
	defer server.Close()

	resolver := NewHTTPResolver(server.URL, 2*time.Second)

	location, err := resolver.Resolve(context.Background(), "203.0.113.9")

	assert.NoError(t, err)
	assert.Equal(t, "Germany", location.Country)
	assert.Equal(t, "Berlin", location.City)
}

func TestResolve_ServiceRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"fail","message":"reserved range"}`)
	}))
	defer server.Close()

	resolver := NewHTTPResolver(server.URL, 2*time.Second)

	_, err := resolver.Resolve(context.Background(), "203.0.113.10")

	assert.Error(t, err)
}

func TestResolve_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	resolver := NewHTTPResolver(server.URL, 2*time.Second)

	_, err := resolver.Resolve(context.Background(), "203.0.113.11")

	assert.Error(t, err)
}

func TestResolve_PrivateAddressesSkipLookup(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	resolver := NewHTTPResolver(server.URL, 2*time.Second)

	for _, ip := range []string{"10.0.0.1", "192.168.1.5", "127.0.0.1", "::1"} {
		location, err := resolver.Resolve(context.Background(), ip)
		assert.NoError(t, err, ip)
		assert.Empty(t, location.Country, ip)
	}

	assert.False(t, called, "private/loopback addresses must not hit the network")
}

func TestResolve_InvalidIP(t *testing.T) {
	resolver := NewHTTPResolver("http://unused.invalid", 2*time.Second)

	_, err := resolver.Resolve(context.Background(), "not-an-ip")

	assert.Error(t, err)
}
