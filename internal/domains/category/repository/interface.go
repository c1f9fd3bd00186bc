package repository

import (
	"context"

	"asset-manager-backend/internal/domains/category/model"
)

type Repository interface {
	// Create gán ID và CreatedAt cho c; slug trùng → model.ErrSlugAlreadyExists
	Create(ctx context.Context, c *model.Category) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	// List kèm số asset; nonEmpty=true bỏ các category chưa có asset
	List(ctx context.Context, nonEmpty bool) ([]model.Category, error)
}
