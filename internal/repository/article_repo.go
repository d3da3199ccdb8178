package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxpadi/internal/domain"
)

// ArticleFilter acota los listados de artículos.
type ArticleFilter struct {
	Published *bool
	Category  string
	Skip      int
	Take      int
}

type ArticleRepository interface {
	Create(ctx context.Context, article domain.Article) error
	GetByID(ctx context.Context, id string) (domain.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	Update(ctx context.Context, article domain.Article) error
	Delete(ctx context.Context, id string) error
}

type PgArticleRepository struct {
	pool *pgxpool.Pool
}

func NewPgArticleRepository(pool *pgxpool.Pool) *PgArticleRepository {
	return &PgArticleRepository{pool: pool}
}

func (r *PgArticleRepository) Create(ctx context.Context, article domain.Article) error {
	const query = `
		INSERT INTO articles (id, author_id, title, content, category, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		article.ID,
		article.AuthorID,
		article.Title,
		article.Content,
		article.Category,
		article.Published,
		article.CreatedAt,
		article.UpdatedAt,
	)
	return err
}

func (r *PgArticleRepository) GetByID(ctx context.Context, id string) (domain.Article, error) {
	const query = `
		SELECT id, author_id, title, content, category, published, created_at, updated_at
		FROM articles
		WHERE id = $1
	`
	var a domain.Article
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.AuthorID,
		&a.Title,
		&a.Content,
		&a.Category,
		&a.Published,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Article{}, err
	}
	return a, err
}

func (r *PgArticleRepository) List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error) {
	query := `
		SELECT id, author_id, title, content, category, published, created_at, updated_at
		FROM articles
		WHERE 1=1
	`
	var args []any
	if filter.Published != nil {
		args = append(args, *filter.Published)
		query += fmt.Sprintf(" AND published = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Take > 0 {
		args = append(args, filter.Take)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		err = rows.Scan(
			&a.ID,
			&a.AuthorID,
			&a.Title,
			&a.Content,
			&a.Category,
			&a.Published,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (r *PgArticleRepository) Update(ctx context.Context, article domain.Article) error {
	const query = `
		UPDATE articles
		SET title = $2, content = $3, category = $4, published = $5, updated_at = $6
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.Category,
		article.Published,
		article.UpdatedAt,
	)
	return err
}

func (r *PgArticleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM articles WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
