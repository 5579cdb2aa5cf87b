package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const articleColumns = `id, title, content, category, tags, author_id, created_at, last_updated`

// ArticlePatch carries a partial update for an article. Nil fields are
// left untouched; last_updated is refreshed regardless.
type ArticlePatch struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
}

// ArticleRepository encapsulates knowledge-base persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Article, error)
	SearchByTitle(ctx context.Context, term string) ([]domain.Article, error)
	Patch(ctx context.Context, id string, patch ArticlePatch) error
	Delete(ctx context.Context, id string) error
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO kb_articles (title, content, category, tags, author_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, last_updated`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Category,
		article.Tags,
		article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt, &article.LastUpdated)
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM kb_articles WHERE id=$1`
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, id).Scan(articleFields(&article)...); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context) ([]domain.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM kb_articles ORDER BY created_at DESC`
	return r.fetchMany(ctx, query)
}

func (r *articleRepository) ListByCategory(ctx context.Context, category string) ([]domain.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM kb_articles WHERE category=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, category)
}

func (r *articleRepository) SearchByTitle(ctx context.Context, term string) ([]domain.Article, error) {
	const query = `SELECT ` + articleColumns + ` FROM kb_articles WHERE LOWER(title) LIKE $1 ORDER BY created_at DESC`
	search := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	return r.fetchMany(ctx, query, search)
}

func (r *articleRepository) Patch(ctx context.Context, id string, patch ArticlePatch) error {
	sets := []string{}
	args := []any{}

	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if patch.Content != nil {
		args = append(args, *patch.Content)
		sets = append(sets, fmt.Sprintf("content=$%d", len(args)))
	}
	if patch.Category != nil {
		args = append(args, *patch.Category)
		sets = append(sets, fmt.Sprintf("category=$%d", len(args)))
	}
	if patch.Tags != nil {
		args = append(args, *patch.Tags)
		sets = append(sets, fmt.Sprintf("tags=$%d", len(args)))
	}
	sets = append(sets, "last_updated=NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE kb_articles SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM kb_articles WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(articleFields(&article)...); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func articleFields(article *domain.Article) []any {
	return []any{
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Category,
		&article.Tags,
		&article.AuthorID,
		&article.CreatedAt,
		&article.LastUpdated,
	}
}
