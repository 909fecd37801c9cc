package comment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"CollabProject/middleware"
	cmodel "CollabProject/module/comment/model"
	cstore "CollabProject/module/comment/store"
	dstore "CollabProject/module/doc/store"
)

type Handler struct {
	store *cstore.CommentStore
	docs  *dstore.DocumentStore
}

func NewHandler(s *cstore.CommentStore, docs *dstore.DocumentStore) *Handler {
	return &Handler{store: s, docs: docs}
}

func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/resolve", h.Resolve)
	g.POST("/:id/reply", h.Reply)
}

func (h *Handler) List(c *gin.Context) {
	docID := c.Query("documentId")
	if !h.docs.CheckAccess(c.Request.Context(), middleware.UserID(c), docID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found or access denied"})
		return
	}
	comments, err := h.store.ListForDocument(c.Request.Context(), docID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if comments == nil {
		comments = []cmodel.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

type createCommentReq struct {
	DocumentID    string               `json:"documentId" binding:"required"`
	Content       string               `json:"content" binding:"required"`
	TextSelection cmodel.TextSelection `json:"textSelection"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.docs.CheckAccess(c.Request.Context(), middleware.UserID(c), req.DocumentID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found or access denied"})
		return
	}
	cm, err := h.store.Create(c.Request.Context(), req.DocumentID, middleware.UserID(c), req.Content, req.TextSelection)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cm)
}

type updateCommentReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) Update(c *gin.Context) {
	var req updateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cm, err := h.store.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Content)
	if errors.Is(err, cstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found or not authorized"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, cstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found or not authorized"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

type resolveReq struct {
	Resolved *bool `json:"resolved" binding:"required"`
}

// Resolve toggles the resolved flag; allowed for the comment author or the
// document owner.
func (h *Handler) Resolve(c *gin.Context) {
	var req resolveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.UserID(c)
	cm, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, cstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cm.Author != userID {
		doc, derr := h.docs.Get(c.Request.Context(), userID, cm.Document.Hex())
		if derr != nil || doc.Owner != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found or not authorized"})
			return
		}
	}
	cm, err = h.store.Resolve(c.Request.Context(), c.Param("id"), *req.Resolved)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *Handler) Reply(c *gin.Context) {
	var req updateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parent, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, cstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !h.docs.CheckAccess(c.Request.Context(), middleware.UserID(c), parent.Document.Hex()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found or access denied"})
		return
	}
	reply, err := h.store.AddReply(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reply)
}
