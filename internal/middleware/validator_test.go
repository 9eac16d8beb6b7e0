package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLinkURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://localhost:8000/path?q=1", false},
		{"http://192.168.1.1/login", false},
		{"", true},
		{"ftp://example.com", true},
		{"javascript:alert(1)", true},
		{"https://", true},
		{"https://example.com/" + strings.Repeat("a", maxLinkLength), true},
	}
	for _, tt := range tests {
		err := ValidateLinkURL(tt.url)
		if tt.wantErr {
			assert.Error(t, err, tt.url)
		} else {
			assert.NoError(t, err, tt.url)
		}
	}
}

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, ValidateSessionID("8f14e45f-ceea-467f-a0e6-5b2f1c0c6c7d"))
	assert.Error(t, ValidateSessionID(""))
	assert.Error(t, ValidateSessionID("../etc/passwd"))
	assert.Error(t, ValidateSessionID("8F14E45F-CEEA-467F-A0E6-5B2F1C0C6C7D"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "https://example.com", SanitizeString("  https://example.com\x00\x07 "))
	assert.Equal(t, "a\tb", SanitizeString("a\tb"))
}
