package handlers

import (
	"net/http"
	"toasty/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject shared decoration into page responses.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if banner, exists := c.Get(middleware.BannerKey); exists {
		obj["Banner"] = banner
	}
	if _, ok := obj["Active"]; !ok {
		obj["Active"] = ""
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// NotFound is the fallback for unknown paths.
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Page not found")
}
