package repository

import (
	"context"
	"errors"
	"fmt"

	"asset-manager-backend/internal/domains/category/model"
	"asset-manager-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	db database.DBTX
}

func NewPostgresRepository(db database.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Category) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO asset_categories (name, slug, description, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.Name, c.Slug, c.Description, c.ParentID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrSlugAlreadyExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM asset_categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category %d: %w", id, err)
	}
	return exists, nil
}

const selectWithCount = `
	SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.created_at, COUNT(a.id)
	FROM asset_categories c
	LEFT JOIN assets a ON a.category_id = c.id`

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	row := r.db.QueryRow(ctx, selectWithCount+` WHERE c.slug = $1 GROUP BY c.id`, slug)

	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", slug, err)
	}
	return c, nil
}

func (r *postgresRepository) List(ctx context.Context, nonEmpty bool) ([]model.Category, error) {
	sql := selectWithCount + ` GROUP BY c.id`
	if nonEmpty {
		sql += ` HAVING COUNT(a.id) > 0`
	}
	sql += ` ORDER BY c.name ASC`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.CreatedAt, &c.AssetCount)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
