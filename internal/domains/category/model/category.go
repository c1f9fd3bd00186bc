package model

import (
	"errors"
	"net/http"
	"time"

	"asset-manager-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

// ============================================================
// ENTITY
// ============================================================

// Category - một term của asset taxonomy
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ParentID    *int64    `json:"parent_id"`
	AssetCount  int64     `json:"asset_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ============================================================
// DTO
// ============================================================

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
}

func (r *CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.ParentID, validation.NilOrNotEmpty, validation.Min(int64(1))),
	)
}

// ============================================================
// ERRORS
// ============================================================

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrSlugAlreadyExists = errors.New("category slug already exists")
	ErrParentNotFound    = errors.New("parent category not found")
	ErrInvalidName       = errors.New("category name produces an empty slug")
)

var categoryErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrCategoryNotFound:  {http.StatusNotFound, "The specified category does not exist"},
	ErrSlugAlreadyExists: {http.StatusConflict, "A category with a similar name already exists"},
	ErrParentNotFound:    {http.StatusBadRequest, "The parent category does not exist"},
	ErrInvalidName:       {http.StatusBadRequest, "The category name must contain letters or digits"},
}

func HandleCategoryError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.Error(c, http.StatusUnprocessableEntity, "Validation failed", verrs)
		return true
	}

	for target, e := range categoryErrorMap {
		if errors.Is(err, target) {
			response.Error(c, e.Status, e.Message, nil)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unhandled category error")
	response.InternalServerError(c, "Internal server error")
	return true
}
