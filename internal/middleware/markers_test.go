package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemaining(t *testing.T) {
	now := time.Now()
	window := time.Hour

	assert.Equal(t, time.Duration(0), Remaining(now.Add(-2*time.Hour), now, window), "expired marker")
	assert.Equal(t, time.Duration(0), Remaining(now.Add(-window), now, window), "exactly at the window edge")
	assert.Equal(t, 30*time.Minute, Remaining(now.Add(-30*time.Minute), now, window), "half the window left")
	assert.Equal(t, time.Duration(0), Remaining(now.Add(time.Minute), now, window), "clock skew into the future")
}

func markerRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	r.POST("/upload", func(c *gin.Context) {
		if remaining := CooldownRemaining(c, time.Now(), time.Hour); remaining > 0 {
			c.Status(http.StatusTooManyRequests)
			return
		}
		_ = MarkUpload(c, time.Now())
		c.Status(http.StatusOK)
	})
	r.POST("/vote/:id", func(c *gin.Context) {
		if HasVoted(c, 7) {
			c.Status(http.StatusOK)
			return
		}
		_ = MarkVoted(c, 7)
		c.Status(http.StatusFound)
	})
	return r
}

func doWithCookies(r *gin.Engine, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCooldownMarkerRoundTrip(t *testing.T) {
	r := markerRouter()

	first := doWithCookies(r, http.MethodPost, "/upload", nil)
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies, "a fresh marker must be issued")

	// Replaying the marker within the window is throttled.
	second := doWithCookies(r, http.MethodPost, "/upload", cookies)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// A client without the cookie is not throttled: the marker is advisory.
	third := doWithCookies(r, http.MethodPost, "/upload", nil)
	assert.Equal(t, http.StatusOK, third.Code)
}

func TestVoteMarkerRoundTrip(t *testing.T) {
	r := markerRouter()

	first := doWithCookies(r, http.MethodPost, "/vote/7", nil)
	require.Equal(t, http.StatusFound, first.Code)
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	second := doWithCookies(r, http.MethodPost, "/vote/7", cookies)
	assert.Equal(t, http.StatusOK, second.Code, "second vote with the marker is a benign no-op")
}
