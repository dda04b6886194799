package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/path?q=1"))
	assert.NoError(t, ValidateURL("http://example.com"))

	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("not-a-valid-url"))
	assert.Error(t, ValidateURL("javascript:alert(1)"))
	assert.Error(t, ValidateURL("https://"+strings.Repeat("a", 2100)+".com"))
}

func TestValidateShortCode(t *testing.T) {
	assert.True(t, ValidateShortCode("a"))
	assert.True(t, ValidateShortCode("abc123"))
	assert.True(t, ValidateShortCode("my-custom_link"))
	assert.True(t, ValidateShortCode(strings.Repeat("x", 50)))

	assert.False(t, ValidateShortCode(""))
	assert.False(t, ValidateShortCode(strings.Repeat("x", 51)))
	assert.False(t, ValidateShortCode("has space"))
	assert.False(t, ValidateShortCode("semi;colon"))
	assert.False(t, ValidateShortCode("slash/code"))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeURL("example.com"))
	assert.Equal(t, "https://example.com/path", NormalizeURL("HTTPS://EXAMPLE.COM/path/"))
}
