package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.summary)
	rg.GET("/videos", h.videos)
	rg.GET("/categories", h.categories)
	rg.GET("/channels", h.channels)
}

func (h *Handler) summary(c *gin.Context) {
	s, err := h.Repo.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) videos(c *gin.Context) {
	q := VideoQuery{
		Country:  c.Query("country"),
		Category: c.Query("category"),
		Limit:    parseInt(c.Query("limit"), 20),
		Offset:   parseInt(c.Query("offset"), 0),
	}

	items, err := h.Repo.Videos(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) categories(c *gin.Context) {
	stats, err := h.Repo.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "categories failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": stats})
}

func (h *Handler) channels(c *gin.Context) {
	limit := parseInt(c.Query("limit"), 10)
	stats, err := h.Repo.TopChannels(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "channels failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": stats})
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
