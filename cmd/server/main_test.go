package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthcheckURL(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	assert.Equal(t, "http://localhost:8081/health", healthcheckURL())

	t.Setenv("SERVER_PORT", "9090")
	assert.Equal(t, "http://localhost:9090/health", healthcheckURL())
}
