package doc

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"CollabProject/middleware"
	"CollabProject/module/doc/store"
)

type Handler struct {
	store *store.DocumentStore
}

func NewHandler(s *store.DocumentStore) *Handler {
	return &Handler{store: s}
}

func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/share", h.Share)
	g.PATCH("/:id/unshare", h.Unshare)
	g.GET("/:id/shared", h.SharedWith)
}

func (h *Handler) List(c *gin.Context) {
	docs, err := h.store.ListFor(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) Get(c *gin.Context) {
	doc, err := h.store.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

type upsertDocReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (h *Handler) Create(c *gin.Context) {
	var req upsertDocReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.store.Create(c.Request.Context(), middleware.UserID(c), req.Title, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) Update(c *gin.Context) {
	var req upsertDocReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.store.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Title, req.Content)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

type shareReq struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) Share(c *gin.Context) {
	h.updateSharing(c, h.store.Share)
}

func (h *Handler) Unshare(c *gin.Context) {
	h.updateSharing(c, h.store.Unshare)
}

func (h *Handler) updateSharing(c *gin.Context, op func(ctx context.Context, ownerID, id, userID string) error) {
	var req shareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := op(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found or not owned by you"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sharing updated"})
}

func (h *Handler) SharedWith(c *gin.Context) {
	shared, err := h.store.SharedWith(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found or not owned by you"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if shared == nil {
		shared = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"sharedWith": shared})
}
