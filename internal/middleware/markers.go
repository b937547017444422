package middleware

import (
	"fmt"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Client-held markers live in the signed session cookie. They are advisory:
// the cookie is client state, so the one-vote and one-upload-per-hour rules
// are usability gates, not security controls. A client that drops the cookie
// can vote or upload again; nothing server-side records who did what.

const lastUploadKey = "last_upload"

// CooldownRemaining reports how long the client still has to wait before the
// next upload, zero when no marker is set or the window has passed.
func CooldownRemaining(c *gin.Context, now time.Time, window time.Duration) time.Duration {
	session := sessions.Default(c)
	raw := session.Get(lastUploadKey)
	if raw == nil {
		return 0
	}
	ts, ok := raw.(int64)
	if !ok {
		return 0
	}
	return Remaining(time.Unix(ts, 0), now, window)
}

// Remaining is the pure age check behind CooldownRemaining.
func Remaining(last, now time.Time, window time.Duration) time.Duration {
	elapsed := now.Sub(last)
	if elapsed < 0 || elapsed >= window {
		return 0
	}
	return window - elapsed
}

// MarkUpload issues a fresh cooldown marker.
func MarkUpload(c *gin.Context, now time.Time) error {
	session := sessions.Default(c)
	session.Set(lastUploadKey, now.Unix())
	return session.Save()
}

func votedKey(toasterID uint) string {
	return fmt.Sprintf("voted_%d", toasterID)
}

// HasVoted reports whether this client already carries a vote marker for the
// toaster.
func HasVoted(c *gin.Context, toasterID uint) bool {
	session := sessions.Default(c)
	v, ok := session.Get(votedKey(toasterID)).(bool)
	return ok && v
}

// MarkVoted records a permanent vote marker for (client, toaster).
func MarkVoted(c *gin.Context, toasterID uint) error {
	session := sessions.Default(c)
	session.Set(votedKey(toasterID), true)
	return session.Save()
}
