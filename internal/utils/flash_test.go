package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Set the flash on one response, then replay its cookie on a second
	// request the way a redirect does.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	SetFlash(c, "danger", "Invalid credentials.")

	var flash *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "flash" {
			flash = ck
		}
	}
	require.NotNil(t, flash)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/login", nil)
	c2.Request.AddCookie(flash)

	category, message := TakeFlash(c2)
	assert.Equal(t, "danger", category)
	assert.Equal(t, "Invalid credentials.", message)

	// Reading clears the cookie
	cleared := false
	for _, ck := range w2.Result().Cookies() {
		if ck.Name == "flash" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestTakeFlashEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	category, message := TakeFlash(c)
	assert.Empty(t, category)
	assert.Empty(t, message)
}
