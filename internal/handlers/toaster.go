package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"time"
	"toasty/internal/middleware"
	"toasty/internal/models"
	"toasty/internal/services"
	"toasty/internal/store"
	"toasty/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	indexCacheKey = "toasters:index"
	fameCacheKey  = "toasters:fame"
	listCacheTTL  = 1 * time.Minute
)

const defaultRules = `# House rules

1. Toasters only. Kettles, sandwich makers and air fryers will be removed.
2. One upload per hour.
3. Rate honestly, from 1 (scrap metal) to 10 (breakfast royalty).
4. Keep comments about the toaster.
`

type ToasterHandler struct {
	store     store.Store
	uploader  *services.Uploader
	rulesPath string
}

func NewToasterHandler(s store.Store, uploader *services.Uploader, rulesPath string) *ToasterHandler {
	return &ToasterHandler{
		store:     s,
		uploader:  uploader,
		rulesPath: rulesPath,
	}
}

// Index lists all toasters, newest first.
func (h *ToasterHandler) Index(c *gin.Context) {
	toasters, ok := utils.GetCache().Get(indexCacheKey).([]models.Toaster)
	if !ok {
		var err error
		toasters, err = h.store.ListToasters()
		if err != nil {
			log.Printf("Failed to list toasters: %v", err)
			RenderError(c, http.StatusInternalServerError, "Something went wrong")
			return
		}
		utils.GetCache().Set(indexCacheKey, toasters, listCacheTTL)
	}

	Render(c, http.StatusOK, "toaster/list.html", gin.H{
		"Toasters": toasters,
		"Active":   "index",
		"Title":    "Latest toasters",
	})
}

// HallOfFame lists the five highest rated toasters.
func (h *ToasterHandler) HallOfFame(c *gin.Context) {
	toasters, ok := utils.GetCache().Get(fameCacheKey).([]models.Toaster)
	if !ok {
		var err error
		toasters, err = h.store.TopRated(5)
		if err != nil {
			log.Printf("Failed to load hall of fame: %v", err)
			RenderError(c, http.StatusInternalServerError, "Something went wrong")
			return
		}
		utils.GetCache().Set(fameCacheKey, toasters, listCacheTTL)
	}

	Render(c, http.StatusOK, "toaster/list.html", gin.H{
		"Toasters": toasters,
		"Active":   "fame",
		"Title":    "Hall of fame",
	})
}

// Rules renders the rules document.
func (h *ToasterHandler) Rules(c *gin.Context) {
	source := defaultRules
	if raw, err := os.ReadFile(h.rulesPath); err == nil {
		source = string(raw)
	}

	Render(c, http.StatusOK, "rules.html", gin.H{
		"Title": "Rules",
		"Rules": utils.RenderMarkdown(source),
	})
}

// Comments shows a toaster and its comments, newest first.
func (h *ToasterHandler) Comments(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "Toaster not found")
		return
	}

	toaster, err := h.store.ToasterByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Toaster not found")
			return
		}
		log.Printf("Failed to load toaster %d: %v", id, err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	comments, err := h.store.CommentsByToaster(id)
	if err != nil {
		log.Printf("Failed to load comments for toaster %d: %v", id, err)
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	type renderedComment struct {
		models.Comment
		ContentHTML template.HTML
	}
	rendered := make([]renderedComment, len(comments))
	for i, com := range comments {
		rendered[i] = renderedComment{
			Comment:     com,
			ContentHTML: utils.RenderMarkdown(com.Content),
		}
	}

	Render(c, http.StatusOK, "toaster/comments.html", gin.H{
		"Toaster":  toaster,
		"Comments": rendered,
		"HasVoted": middleware.HasVoted(c, toaster.ID),
		"Title":    fmt.Sprintf("Toaster #%d", toaster.ID),
	})
}

// Submit runs the upload admission pipeline. The cooldown gate comes first so
// a throttled client causes no storage or record work at all.
func (h *ToasterHandler) Submit(c *gin.Context) {
	if remaining := middleware.CooldownRemaining(c, time.Now(), services.CooldownWindow); remaining > 0 {
		c.String(http.StatusTooManyRequests, "%s, try again in %s", services.ErrCooldownActive.Error(), remaining.Round(time.Second))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid form data")
		return
	}
	files := form.File["image"]
	if len(files) == 0 {
		c.String(http.StatusBadRequest, "Choose an image to upload")
		return
	}
	if len(files) > 1 {
		c.String(http.StatusBadRequest, "Only one image per submission")
		return
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid form data")
		return
	}
	defer file.Close()

	toaster, err := h.uploader.Admit(file, header)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidFileType):
			c.String(http.StatusBadRequest, "%s", err.Error())
		case errors.Is(err, services.ErrFileTooLarge):
			c.String(http.StatusRequestEntityTooLarge, "%s", err.Error())
		default:
			log.Printf("Upload failed: %v", err)
			c.String(http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	if err := middleware.MarkUpload(c, time.Now()); err != nil {
		log.Printf("Failed to save cooldown marker: %v", err)
	}

	utils.GetCache().Delete(indexCacheKey)
	utils.GetCache().Delete(fameCacheKey)

	c.Redirect(http.StatusFound, fmt.Sprintf("/toasters/%d/comments", toaster.ID))
}

// CreateComment appends a comment to a toaster.
func (h *ToasterHandler) CreateComment(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "Toaster not found")
		return
	}

	comment := models.Comment{
		ToasterID: id,
		Content:   c.PostForm("comment"),
	}
	if err := h.store.CreateComment(&comment); err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyComment):
			c.String(http.StatusBadRequest, "Comment must not be empty")
		case errors.Is(err, store.ErrNotFound):
			c.String(http.StatusNotFound, "Toaster not found")
		default:
			log.Printf("Failed to create comment for toaster %d: %v", id, err)
			c.String(http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	utils.GetCache().Delete(indexCacheKey)

	c.Redirect(http.StatusFound, fmt.Sprintf("/toasters/%d/comments", id))
}
