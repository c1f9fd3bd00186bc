package repository

import (
	"context"
	"sort"

	"asset-manager-backend/internal/domains/category/model"
	"asset-manager-backend/internal/infrastructure/memory"
)

type memoryRepository struct {
	db *memory.DB
}

func NewMemoryRepository(db *memory.DB) Repository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) Create(_ context.Context, c *model.Category) error {
	return r.db.Update(func(t *memory.Tables) error {
		if t.CategoryBySlug(c.Slug) != nil {
			return model.ErrSlugAlreadyExists
		}
		now := r.db.Now()
		c.ID = t.InsertCategory(memory.CategoryRow{
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			ParentID:    c.ParentID,
			CreatedAt:   now,
		})
		c.CreatedAt = now
		return nil
	})
}

func (r *memoryRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.View(func(t *memory.Tables) error {
		_, exists = t.Categories[id]
		return nil
	})
	return exists, err
}

func (r *memoryRepository) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	var out *model.Category
	err := r.db.View(func(t *memory.Tables) error {
		row := t.CategoryBySlug(slug)
		if row == nil {
			return model.ErrCategoryNotFound
		}
		c := toCategory(row, countAssets(t)[row.ID])
		out = &c
		return nil
	})
	return out, err
}

func (r *memoryRepository) List(_ context.Context, nonEmpty bool) ([]model.Category, error) {
	out := []model.Category{}
	err := r.db.View(func(t *memory.Tables) error {
		counts := countAssets(t)
		for _, row := range t.Categories {
			if nonEmpty && counts[row.ID] == 0 {
				continue
			}
			out = append(out, toCategory(row, counts[row.ID]))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func countAssets(t *memory.Tables) map[int64]int64 {
	counts := map[int64]int64{}
	for _, a := range t.Assets {
		if a.CategoryID != nil {
			counts[*a.CategoryID]++
		}
	}
	return counts
}

func toCategory(row *memory.CategoryRow, count int64) model.Category {
	return model.Category{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		ParentID:    row.ParentID,
		AssetCount:  count,
		CreatedAt:   row.CreatedAt,
	}
}
