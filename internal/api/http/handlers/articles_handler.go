package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// ArticlesHandler exposes the knowledge base endpoints.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// Create POST /kb.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.Create(c.Context(), principal, service.ArticleCreateInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": articleResponse(article)})
}

// List GET /kb.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	articles, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponses(articles)})
}

// Search GET /kb/search?q=term.
func (h *ArticlesHandler) Search(c *fiber.Ctx) error {
	articles, err := h.service.Search(c.Context(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponses(articles)})
}

// ListByCategory GET /kb/categories/:category.
func (h *ArticlesHandler) ListByCategory(c *fiber.Ctx) error {
	articles, err := h.service.ListByCategory(c.Context(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponses(articles)})
}

// Update PATCH /kb/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	articleID, err := h.service.Update(c.Context(), principal, c.Params("id"), service.ArticleUpdateInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"article_id": articleID}})
}

// Delete DELETE /kb/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	articleID, err := h.service.Delete(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"article_id": articleID}})
}

func articleResponse(article *domain.Article) dto.ArticleResponse {
	return dto.ArticleResponse{
		ID:          article.ID,
		Title:       article.Title,
		Content:     article.Content,
		Category:    article.Category,
		Tags:        article.Tags,
		AuthorID:    article.AuthorID,
		AuthorName:  article.AuthorName,
		CreatedAt:   article.CreatedAt,
		LastUpdated: article.LastUpdated,
	}
}

func articleResponses(articles []domain.Article) []dto.ArticleResponse {
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, articleResponse(&articles[i]))
	}
	return items
}
