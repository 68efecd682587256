package token

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTokensCookie(t *testing.T) {
	setter := NewCookieSetter(true, false)
	expiry := time.Now().Add(5 * time.Minute)

	w := httptest.NewRecorder()
	SetTokensCookie(setter, w, map[string]AuthToken{
		ACCESS_TOKEN_NAME: {Token: "signed-jwt", Expiry: expiry},
	})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ACCESS_TOKEN_NAME, cookies[0].Name)
	assert.Equal(t, "signed-jwt", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure)
}

func TestClearTokensCookie(t *testing.T) {
	setter := NewCookieSetter(true, true)

	w := httptest.NewRecorder()
	ClearTokensCookie(setter, w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}
