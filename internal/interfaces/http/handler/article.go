package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/logistics/backend/internal/application/ledger"
)

// ArticleHandler manages expense articles
type ArticleHandler struct {
	BaseHandler
	articles *ledger.ArticleService
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articles *ledger.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// List handles GET /articles
func (h *ArticleHandler) List(c *gin.Context) {
	items, err := h.articles.List(c.Request.Context(), h.principal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]ArticleResponse, len(items))
	for i := range items {
		out[i] = toArticleResponse(&items[i])
	}
	h.SuccessList(c, out, len(out))
}

// Get handles GET /articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	article, err := h.articles.Get(c.Request.Context(), h.principal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toArticleResponse(article))
}

// Create handles POST /articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req ArticleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	article, err := h.articles.Create(c.Request.Context(), h.principal(c), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toArticleResponse(article))
}

// Rename handles PUT /articles/:id
func (h *ArticleHandler) Rename(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ArticleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	article, err := h.articles.Rename(c.Request.Context(), h.principal(c), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toArticleResponse(article))
}

// Delete handles DELETE /articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.articles.Delete(c.Request.Context(), h.principal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
