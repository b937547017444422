package middleware

import (
	"toasty/internal/services"

	"github.com/gin-gonic/gin"
)

const BannerKey = "banner"

// Decorate picks a banner for the request and sets it on the context for the
// render helper.
func Decorate(banner *services.BannerProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(BannerKey, banner.Pick())
		c.Next()
	}
}
