package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestContext(authHeader string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestExtractAPIKey(t *testing.T) {
	key := strings.Repeat("k", APIKeyLength)

	got, err := ExtractAPIKey(newTestContext("Bearer " + key))
	assert.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = ExtractAPIKey(newTestContext(""))
	assert.ErrorIs(t, err, ErrMissingAuth)

	_, err = ExtractAPIKey(newTestContext("Token " + key))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractAPIKey(newTestContext("Bearer short"))
	assert.ErrorIs(t, err, ErrInvalidKeyLen)
}
