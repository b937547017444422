package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"toasty/internal/middleware"
	"toasty/internal/store"
	"toasty/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	store store.Store
}

func NewVoteHandler(s store.Store) *VoteHandler {
	return &VoteHandler{store: s}
}

// Rate casts one vote on a toaster. A client whose session already carries a
// vote marker for this toaster gets a benign message, not an error: the
// rejection is idempotent by intent.
func (h *VoteHandler) Rate(c *gin.Context) {
	id, ok := utils.StringToUint(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "Toaster not found")
		return
	}

	value, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil || value < 1 || value > 10 {
		c.String(http.StatusBadRequest, "Rating must be an integer between 1 and 10")
		return
	}

	if middleware.HasVoted(c, id) {
		c.String(http.StatusOK, "You have already rated this toaster.")
		return
	}

	toaster, err := h.store.ApplyVote(id, value)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidRating):
			c.String(http.StatusBadRequest, "Rating must be an integer between 1 and 10")
		case errors.Is(err, store.ErrNotFound):
			c.String(http.StatusNotFound, "Toaster not found")
		default:
			log.Printf("Failed to apply vote on toaster %d: %v", id, err)
			c.String(http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	// Permanent marker: one vote ever per client per toaster.
	if err := middleware.MarkVoted(c, toaster.ID); err != nil {
		log.Printf("Failed to save vote marker: %v", err)
	}

	utils.GetCache().Delete(indexCacheKey)
	utils.GetCache().Delete(fameCacheKey)

	c.Redirect(http.StatusFound, fmt.Sprintf("/toasters/%d/comments", toaster.ID))
}
