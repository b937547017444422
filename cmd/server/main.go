package main

import (
	"log"
	"os"
	"toasty/internal/db"
	"toasty/internal/handlers"
	"toasty/internal/middleware"
	"toasty/internal/router"
	"toasty/internal/services"
	"toasty/internal/store"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	conn, err := db.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	st := store.NewGormStore(conn)

	uploader, err := services.NewUploader(st, envOr("UPLOAD_DIR", "./uploads"))
	if err != nil {
		log.Fatal(err)
	}
	banner := services.NewBannerProvider(envOr("BANNER_DIR", "./web/static/banners"), "/static/banners")

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions. The cookie store keeps all marker state client-side,
	// signed but advisory.
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	sessStore := cookie.NewStore([]byte(secret))
	sessStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 365, // vote markers are permanent, keep the cookie around
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("toasty_session", sessStore))

	// Load Templates using Multitemplate
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets
	r.Static("/static", "./web/static")
	r.Static("/uploads", uploader.Dir())

	// Middleware
	r.Use(middleware.Decorate(banner))

	// Handlers
	toasterHandler := handlers.NewToasterHandler(st, uploader, envOr("RULES_PATH", "./web/rules.md"))
	voteHandler := handlers.NewVoteHandler(st)
	modSecret := os.Getenv("MOD_SECRET_HASH")
	if modSecret == "" {
		modSecret = os.Getenv("MOD_SECRET")
	}
	modHandler := handlers.NewModHandler(st, uploader, modSecret)

	router.RegisterRoutes(r, toasterHandler, voteHandler, modHandler)

	port := envOr("PORT", "8080")
	log.Printf("Toasty server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts := []string{templatesDir + "/layouts/base.html"}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, templatesDir+"/views/"+view)
		return files
	}

	// Manual registration so keys match what the handlers render.
	r.AddFromFiles("toaster/list.html", assemble("toaster/list.html")...)
	r.AddFromFiles("toaster/comments.html", assemble("toaster/comments.html")...)
	r.AddFromFiles("rules.html", assemble("rules.html")...)
	r.AddFromFiles("mod.html", assemble("mod.html")...)
	r.AddFromFiles("error.html", assemble("error.html")...)

	return r
}
