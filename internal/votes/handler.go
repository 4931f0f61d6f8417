package votes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/auth"
	"campusmarket/internal/feedsync"
	"campusmarket/internal/store"
)

type Handler struct {
	Repo  *Repo
	Local *store.LocalStore
	Hub   *feedsync.Hub
}

func NewHandler(repo *Repo, local *store.LocalStore, hub *feedsync.Hub) *Handler {
	return &Handler{Repo: repo, Local: local, Hub: hub}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/posts/:id/score", h.score)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/votes", h.listMine)
	rg.POST("/votes", h.cast)
	rg.DELETE("/votes/:post_id", h.remove)
}

type castReq struct {
	PostID string `json:"post_id"`
	Value  int    `json:"value"`
}

func (h *Handler) cast(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req castReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id required"})
		return
	}
	if req.Value != 1 && req.Value != -1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be 1 or -1"})
		return
	}

	prev, err := h.Repo.Get(c.Request.Context(), claims.UserID, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vote failed"})
		return
	}

	if err := h.Repo.Cast(c.Request.Context(), claims.UserID, postID, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vote failed"})
		return
	}

	delta := req.Value
	if prev != nil {
		delta = req.Value - prev.Value
	}
	if delta != 0 {
		_ = h.Local.AdjustVotes(c.Request.Context(), postID, delta)
	}

	score, err := h.Repo.Score(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vote failed"})
		return
	}

	if h.Hub != nil {
		go h.Hub.BroadcastJSON(feedsync.NewVoteEvent(postID, score))
	}

	c.JSON(http.StatusOK, gin.H{
		"postId": postID,
		"value":  req.Value,
		"votos":  score,
	})
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	postID := strings.TrimSpace(c.Param("post_id"))
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id required"})
		return
	}

	prev, err := h.Repo.Get(c.Request.Context(), claims.UserID, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}

	ok, err := h.Repo.Remove(c.Request.Context(), claims.UserID, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if prev != nil {
		_ = h.Local.AdjustVotes(c.Request.Context(), postID, -prev.Value)
	}

	score, err := h.Repo.Score(c.Request.Context(), postID)
	if err == nil && h.Hub != nil {
		go h.Hub.BroadcastJSON(feedsync.NewVoteEvent(postID, score))
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

func (h *Handler) listMine(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	list, err := h.Repo.ListByUser(c.Request.Context(), claims.UserID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"limit":  limit,
		"offset": offset,
		"items":  list,
	})
}

func (h *Handler) score(c *gin.Context) {
	postID := strings.TrimSpace(c.Param("id"))
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post id required"})
		return
	}

	score, err := h.Repo.Score(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "score failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"postId": postID, "votos": score})
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
