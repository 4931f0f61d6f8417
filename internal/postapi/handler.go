// Package postapi exposes the classifieds pipeline over HTTP: canonical
// listings, single posts, rendered cards and ranked search.
package postapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/auth"
	"campusmarket/internal/feedsync"
	"campusmarket/internal/present"
	"campusmarket/internal/render"
	"campusmarket/internal/search"
	"campusmarket/internal/store"
)

type Handler struct {
	Store    store.Store
	Search   *search.Engine
	Renderer *render.Renderer
	Hub      *feedsync.Hub
}

func NewHandler(st store.Store, eng *search.Engine, r *render.Renderer, hub *feedsync.Hub) *Handler {
	return &Handler{Store: st, Search: eng, Renderer: r, Hub: hub}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/posts", h.list)
	rg.GET("/posts/search", h.search)
	rg.GET("/posts/:id", h.getByID)
	rg.GET("/posts/:id/card", h.card)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/posts", h.create)
}

func (h *Handler) list(c *gin.Context) {
	f := store.Filters{
		Module:      firstQuery(c, "modulo", "module"),
		Category:    firstQuery(c, "categoria", "category"),
		Subcategory: firstQuery(c, "sub", "subcategoria"),
		Q:           c.Query("q"),
		Page:        parseInt(c.Query("page"), 1),
		Limit:       parseInt(c.Query("limit"), 20),
	}

	items, total, err := h.Store.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"page":  f.Page,
		"limit": f.Limit,
		"items": items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	p, err := h.Store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// card returns the presentation-ready card for one post, HTML included.
// pagina selects the module page the card is viewed from.
func (h *Handler) card(c *gin.Context) {
	p, err := h.Store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
		return
	}

	ctx := present.Context{
		PageModule: firstQuery(c, "pagina", "modulo"),
		View:       present.ViewFeed,
	}
	if strings.EqualFold(c.Query("view"), present.ViewSearch) {
		ctx.View = present.ViewSearch
	}

	card := h.Renderer.Render(*p, ctx)
	c.JSON(http.StatusOK, card)
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}

	all, err := h.Store.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	opts := search.Options{
		Module:   firstQuery(c, "modulo", "module"),
		Category: firstQuery(c, "categoria", "category"),
		Limit:    parseInt(c.Query("limit"), search.DefaultLimit),
	}

	results := h.Search.Search(query, all, opts)
	if results == nil {
		results = []search.Result{}
	}

	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"count": len(results),
		"items": results,
	})
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p, err := h.Store.Create(c.Request.Context(), raw, claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.Hub != nil {
		go h.Hub.BroadcastJSON(feedsync.NewPostEvent(p))
	}

	c.JSON(http.StatusCreated, p)
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			return v
		}
	}
	return ""
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
