package middleware

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

// ModGate is the outer access-control layer in front of the moderator
// routes. The moderation handler performs its own secondary credential check
// and does not trust this gate alone.
func ModGate() gin.HandlerFunc {
	user := os.Getenv("MOD_USER")
	if user == "" {
		user = "mod"
	}
	pass := os.Getenv("MOD_PASS")
	if pass == "" {
		pass = "change_me"
		log.Println("MOD_PASS not set, using default moderator password")
	}
	return gin.BasicAuth(gin.Accounts{user: pass})
}
