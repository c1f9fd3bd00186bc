package service

import (
	"context"
	"fmt"
	"strings"

	"asset-manager-backend/internal/domains/category/model"
	"asset-manager-backend/internal/domains/category/repository"
	"asset-manager-backend/internal/shared/utils"

	"github.com/rs/zerolog/log"
)

type CategoryService interface {
	Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context, nonEmpty bool) ([]model.Category, error)
}

type categoryService struct {
	repo repository.Repository
}

func NewCategoryService(repo repository.Repository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	// ========== STEP 1: Validate ==========
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := utils.GenerateSlug(req.Name)
	if slug == "" {
		return nil, model.ErrInvalidName
	}

	// ========== STEP 2: Parent phải tồn tại ==========
	if req.ParentID != nil {
		exists, err := s.repo.ExistsByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		if !exists {
			return nil, model.ErrParentNotFound
		}
	}

	// ========== STEP 3: Insert ==========
	c := &model.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	log.Info().Int64("category_id", c.ID).Str("slug", c.Slug).Msg("category created")
	return c, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *categoryService) List(ctx context.Context, nonEmpty bool) ([]model.Category, error) {
	return s.repo.List(ctx, nonEmpty)
}
