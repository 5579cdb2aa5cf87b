package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// ArticleService manages the knowledge base. Writes require the
// technician or admin role; reads are open, by design: articles are
// low-sensitivity self-service content.
type ArticleService struct {
	articles   repository.ArticleRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// ArticleDependencies bundles collaborators for the article service.
type ArticleDependencies struct {
	ArticleRepo repository.ArticleRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewArticleService constructs the service.
func NewArticleService(deps ArticleDependencies) *ArticleService {
	return &ArticleService{
		articles:   deps.ArticleRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ArticleCreateInput describes a new article.
type ArticleCreateInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

// ArticleUpdateInput carries a partial update; nil means "not supplied".
type ArticleUpdateInput struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
}

// Create publishes a new article authored by the acting user.
func (s *ArticleService) Create(ctx context.Context, actor *domain.User, input ArticleCreateInput) (*domain.Article, error) {
	if err := requireAction(actor, authz.ActionManageArticles); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content required", nil)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	article := &domain.Article{
		Title:    title,
		Content:  content,
		Category: input.Category,
		Tags:     tags,
		AuthorID: actor.ID,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	article.AuthorName = actor.DisplayName()
	if article.AuthorName == "" {
		article.AuthorName = "Unknown"
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventArticlePublished,
		ActorID: actor.ID,
		Payload: events.ArticlePublishedPayload{
			ArticleID: article.ID,
			Title:     article.Title,
			Category:  article.Category,
		},
	})
	return article, nil
}

// Update patches only the supplied fields; lastUpdated is refreshed on
// every call.
func (s *ArticleService) Update(ctx context.Context, actor *domain.User, articleID string, input ArticleUpdateInput) (string, error) {
	if err := requireAction(actor, authz.ActionManageArticles); err != nil {
		return "", err
	}
	patch := repository.ArticlePatch{
		Title:    input.Title,
		Content:  input.Content,
		Category: input.Category,
		Tags:     input.Tags,
	}
	if err := s.articles.Patch(ctx, articleID, patch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("article", map[string]any{"article_id": articleID})
		}
		return "", apperrors.MapError(err)
	}
	return articleID, nil
}

// Delete permanently removes an article; there is no soft delete.
func (s *ArticleService) Delete(ctx context.Context, actor *domain.User, articleID string) (string, error) {
	if err := requireAction(actor, authz.ActionManageArticles); err != nil {
		return "", err
	}
	if err := s.articles.Delete(ctx, articleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("article", map[string]any{"article_id": articleID})
		}
		return "", apperrors.MapError(err)
	}
	return articleID, nil
}

// List returns every article newest-first with author names resolved.
func (s *ArticleService) List(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.enrichAuthorNames(ctx, articles)
	return articles, nil
}

// Search matches the term against article titles only.
func (s *ArticleService) Search(ctx context.Context, term string) ([]domain.Article, error) {
	articles, err := s.articles.SearchByTitle(ctx, term)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.enrichAuthorNames(ctx, articles)
	return articles, nil
}

// ListByCategory filters articles by their free-text category.
func (s *ArticleService) ListByCategory(ctx context.Context, category string) ([]domain.Article, error) {
	articles, err := s.articles.ListByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.enrichAuthorNames(ctx, articles)
	return articles, nil
}

// enrichAuthorNames resolves author display names at read time,
// defaulting to "Unknown" when the author record is missing.
func (s *ArticleService) enrichAuthorNames(ctx context.Context, articles []domain.Article) {
	names := map[string]string{}
	for i := range articles {
		name, seen := names[articles[i].AuthorID]
		if !seen {
			name = "Unknown"
			if author, err := s.users.GetByID(ctx, articles[i].AuthorID); err == nil && author.Name != nil && *author.Name != "" {
				name = *author.Name
			}
			names[articles[i].AuthorID] = name
		}
		articles[i].AuthorName = name
	}
}
