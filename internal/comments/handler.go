package comments

import (
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"campusmarket/internal/auth"
	"campusmarket/internal/authors"
	"campusmarket/internal/store"
	"campusmarket/pkg/models"
)

type Handler struct {
	Repo    *Repo
	Authors *authors.Directory
	Local   *store.LocalStore
	policy  *bluemonday.Policy
}

func NewHandler(repo *Repo, dir *authors.Directory, local *store.LocalStore) *Handler {
	return &Handler{Repo: repo, Authors: dir, Local: local, policy: bluemonday.StrictPolicy()}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/posts/:id/comments", h.listByPost)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/comments", h.create)
	rg.POST("/comments/:id/like", h.like)
	rg.DELETE("/comments/:id", h.delete)
}

type createReq struct {
	PostID string `json:"post_id"`
	Text   string `json:"texto"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id required"})
		return
	}

	text := strings.TrimSpace(html.UnescapeString(h.policy.Sanitize(req.Text)))
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "texto required"})
		return
	}
	if len(text) > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "texto too long"})
		return
	}

	cm, err := h.Repo.Create(c.Request.Context(), claims.UserID, postID, text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	// keep the denormalized counter on the post row close; best effort
	_ = h.Local.AdjustComments(c.Request.Context(), postID, 1)

	c.JSON(http.StatusCreated, h.withAuthor(*cm))
}

func (h *Handler) listByPost(c *gin.Context) {
	postID := strings.TrimSpace(c.Param("id"))
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post id required"})
		return
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	list, err := h.Repo.ListByPost(c.Request.Context(), postID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	items := make([]models.Comment, 0, len(list))
	for _, cm := range list {
		items = append(items, h.withAuthor(cm))
	}

	c.JSON(http.StatusOK, gin.H{
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) like(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	found, err := h.Repo.Like(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "like failed"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "liked"})
}

func (h *Handler) delete(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	cm, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	okDel, err := h.Repo.Delete(c.Request.Context(), id, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !okDel {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if cm != nil {
		_ = h.Local.AdjustComments(c.Request.Context(), cm.PostID, -1)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) withAuthor(cm models.Comment) models.Comment {
	if a, ok := h.Authors.GetByID(cm.UserID); ok {
		cm.AuthorName = a.Name
	}
	return cm
}

func parseID(c *gin.Context) (int64, bool) {
	idRaw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
