package handlers

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"toasty/internal/services"
	"toasty/internal/store"
	"toasty/internal/utils"

	"github.com/gin-gonic/gin"
)

type ModHandler struct {
	store    store.Store
	uploader *services.Uploader
	secret   string
}

// NewModHandler wires the moderation gate. The secret may be a bcrypt hash
// (MOD_SECRET_HASH) or a plain value; see utils.CheckSecret.
func NewModHandler(s store.Store, uploader *services.Uploader, secret string) *ModHandler {
	return &ModHandler{
		store:    s,
		uploader: uploader,
		secret:   secret,
	}
}

// Console renders the moderator overview. The outer basic-auth gate has
// already passed by the time this runs.
func (h *ModHandler) Console(c *gin.Context) {
	toasters, err := h.store.ListToasters()
	if err != nil {
		log.Printf("Failed to list toasters for moderation: %v", err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	Render(c, http.StatusOK, "mod.html", gin.H{
		"Toasters": toasters,
		"Title":    "Moderation",
	})
}

// Delete removes a toaster, its backing image and, by cascade, its comments.
// The secondary secret is checked before anything is touched; the outer
// access gate alone never authorizes a delete.
func (h *ModHandler) Delete(c *gin.Context) {
	idStr := c.PostForm("id")
	secret := c.PostForm("secret")
	if idStr == "" || secret == "" {
		c.String(http.StatusBadRequest, "id and secret are required")
		return
	}

	if !utils.CheckSecret(h.secret, secret) {
		c.String(http.StatusUnauthorized, "Wrong moderation secret")
		return
	}

	id, ok := utils.StringToUint(idStr)
	if !ok {
		c.String(http.StatusNotFound, "Toaster not found")
		return
	}

	toaster, err := h.store.ToasterByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.String(http.StatusNotFound, "Toaster not found")
			return
		}
		log.Printf("Failed to load toaster %d for deletion: %v", id, err)
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	// An already-missing file is tolerated so a headless record can still be
	// removed; any other unlink failure aborts before the record is touched.
	if err := h.uploader.Remove(toaster.Image); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Failed to delete image %s: %v", toaster.Image, err)
			c.String(http.StatusInternalServerError, "Failed to delete image file")
			return
		}
		log.Printf("Image %s already missing, deleting record anyway", toaster.Image)
	}

	if err := h.store.DeleteToaster(id); err != nil {
		log.Printf("Failed to delete toaster %d: %v", id, err)
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	utils.GetCache().Delete(indexCacheKey)
	utils.GetCache().Delete(fameCacheKey)

	c.String(http.StatusOK, "Toaster %d deleted.", id)
}
