package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taxpadi/internal/domain"
	"taxpadi/internal/repository"
)

// ArticleHandler mantiene dependencias para el CRUD de artículos educativos.
type ArticleHandler struct {
	logger   *zap.Logger
	articles repository.ArticleRepository
}

func NewArticleHandler(logger *zap.Logger, articles repository.ArticleRepository) *ArticleHandler {
	return &ArticleHandler{
		logger:   logger,
		articles: articles,
	}
}

// List maneja GET /articles. Solo lista artículos publicados; soporta
// ?category=, ?skip= y ?take=.
func (h *ArticleHandler) List(c *gin.Context) {
	published := true
	filter := repository.ArticleFilter{
		Published: &published,
		Category:  strings.TrimSpace(c.Query("category")),
		Skip:      parseIntQuery(c.Query("skip"), 0),
		Take:      parseIntQuery(c.Query("take"), 20),
	}

	articles, err := h.articles.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list articles failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list articles"})
		return
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// Get maneja GET /articles/:id.
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.articles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.logger.Error("get article failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// Create maneja POST /articles.
func (h *ArticleHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Title     string `json:"title" binding:"required"`
		Content   string `json:"content" binding:"required"`
		Category  string `json:"category"`
		Published bool   `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid article request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	now := time.Now().UTC()
	article := domain.Article{
		ID:        uuid.NewString(),
		AuthorID:  claims.UserID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Category:  strings.TrimSpace(req.Category),
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.articles.Create(c.Request.Context(), article); err != nil {
		h.logger.Error("create article failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create article"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"article": article})
}

// Update maneja PUT /articles/:id. Solo el autor puede modificar.
func (h *ArticleHandler) Update(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	article, err := h.articles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.logger.Error("get article failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get article"})
		return
	}
	if article.AuthorID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "article belongs to another author"})
		return
	}

	var req struct {
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		Category  *string `json:"category"`
		Published *bool   `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid article update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Title != nil {
		article.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Category != nil {
		article.Category = strings.TrimSpace(*req.Category)
	}
	if req.Published != nil {
		article.Published = *req.Published
	}
	article.UpdatedAt = time.Now().UTC()

	if err := h.articles.Update(c.Request.Context(), article); err != nil {
		h.logger.Error("update article failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// Delete maneja DELETE /articles/:id. Solo el autor puede borrar.
func (h *ArticleHandler) Delete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	article, err := h.articles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		h.logger.Error("get article failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get article"})
		return
	}
	if article.AuthorID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "article belongs to another author"})
		return
	}

	if err := h.articles.Delete(c.Request.Context(), article.ID); err != nil {
		h.logger.Error("delete article failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete article"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseIntQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
