package creations

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the creations repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches creation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/creations", h.list)
	rg.GET("/creations/published", h.listPublished)
	rg.POST("/creations/:id/publish", h.setPublish)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Failure(c, http.StatusUnauthorized, "Login required")
		return
	}

	limit, offset := pageParams(c)
	items, err := h.Repo.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Failure(c, http.StatusInternalServerError, "failed to list creations")
		return
	}
	if items == nil {
		items = []Creation{}
	}
	respond.OK(c, items)
}

func (h *Handler) listPublished(c *gin.Context) {
	limit, offset := pageParams(c)
	items, err := h.Repo.ListPublished(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Failure(c, http.StatusInternalServerError, "failed to list published creations")
		return
	}
	if items == nil {
		items = []Creation{}
	}
	respond.OK(c, items)
}

type publishRequest struct {
	Publish *bool `json:"publish"`
}

func (h *Handler) setPublish(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Failure(c, http.StatusUnauthorized, "Login required")
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respond.Failure(c, http.StatusBadRequest, "creation id is required")
		return
	}

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Publish == nil {
		respond.Failure(c, http.StatusBadRequest, "publish flag is required")
		return
	}

	if err := h.Repo.SetPublish(c.Request.Context(), userID, id, *req.Publish); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Failure(c, http.StatusNotFound, "creation not found")
			return
		}
		respond.Failure(c, http.StatusInternalServerError, "failed to update creation")
		return
	}
	respond.OK(c, gin.H{"id": id, "publish": *req.Publish})
}

func pageParams(c *gin.Context) (int, int) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}
