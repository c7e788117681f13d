package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yugant99/TaylorAI/internal/shared/server/middleware"
	"github.com/yugant99/TaylorAI/internal/shared/server/respond"
)

// Handler exposes the current user's account.
type Handler struct {
	repo Repo
}

// NewHandler builds the users handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

// Register mounts user routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}

// Me returns the authenticated user's account row. Guests get a synthetic
// record, since they have no row.
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if strings.HasPrefix(userID, "guest:") {
		respond.OK(c, gin.H{"user": gin.H{"id": userID, "guest": true}})
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "Could not load user", nil)
		return
	}
	respond.OK(c, gin.H{"user": user})
}
