package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	check := OriginChecker([]string{"chrome-extension://*", "http://localhost:3000"})

	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/v1/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, check(req("")))
	assert.True(t, check(req("chrome-extension://abcdefgh")))
	assert.True(t, check(req("http://localhost:3000")))
	assert.False(t, check(req("http://localhost:3001")))
	assert.False(t, check(req("https://evil.example")))
}
