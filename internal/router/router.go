package router

import (
	"toasty/internal/handlers"
	"toasty/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, toasterHandler *handlers.ToasterHandler, voteHandler *handlers.VoteHandler, modHandler *handlers.ModHandler) {
	// Public routes
	r.GET("/", toasterHandler.Index)
	r.GET("/hall-of-fame", toasterHandler.HallOfFame)
	r.GET("/rules", toasterHandler.Rules)
	r.GET("/toasters/:id/comments", toasterHandler.Comments)
	r.POST("/submit", toasterHandler.Submit)
	r.POST("/rate/:id", voteHandler.Rate)
	r.POST("/toasters/:id/comment", toasterHandler.CreateComment)

	// Moderator routes, behind the outer access gate
	mod := r.Group("/mod")
	mod.Use(middleware.ModGate())
	{
		mod.GET("", modHandler.Console)
		mod.POST("/delete", modHandler.Delete)
	}

	// Fallback
	r.NoRoute(handlers.NotFound)
}
