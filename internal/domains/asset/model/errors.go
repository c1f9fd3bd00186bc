package model

import (
	"errors"
	"net/http"
	"strings"

	"asset-manager-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidCategoryID = errors.New("invalid category id")
	ErrInvalidAssetID    = errors.New("invalid asset id")
	ErrNoImage           = errors.New("asset has no image")
	ErrInvalidImage      = errors.New("image must be JPEG or PNG format")
	ErrImageTooLarge     = errors.New("image exceeds maximum size (5MB)")
	ErrStorageDisabled   = errors.New("object storage is not configured")
)

// ValidationError - submission bị từ chối, Messages theo thứ tự schema
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, " ")
}

var assetErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrAssetNotFound:     {http.StatusNotFound, "The specified asset does not exist"},
	ErrCategoryNotFound:  {http.StatusBadRequest, "The specified category does not exist"},
	ErrInvalidCategoryID: {http.StatusBadRequest, "The category must be a numeric identifier"},
	ErrInvalidAssetID:    {http.StatusBadRequest, "Invalid asset id"},
	ErrNoImage:           {http.StatusNotFound, "The asset has no image"},
	ErrInvalidImage:      {http.StatusBadRequest, "Image must be JPEG or PNG format"},
	ErrImageTooLarge:     {http.StatusRequestEntityTooLarge, "Image exceeds maximum size (5MB)"},
	ErrStorageDisabled:   {http.StatusServiceUnavailable, "Image storage is not available"},
}

// HandleAssetError map error → HTTP response. Trả false nếu err == nil.
func HandleAssetError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		response.Error(c, http.StatusUnprocessableEntity, "Validation failed", verr.Messages)
		return true
	}

	for target, e := range assetErrorMap {
		if errors.Is(err, target) {
			response.Error(c, e.Status, e.Message, nil)
			return true
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unhandled asset error")
	response.InternalServerError(c, "Internal server error")
	return true
}
