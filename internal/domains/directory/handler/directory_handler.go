package handler

import (
	"net/http"
	"strings"

	"asset-manager-backend/internal/domains/directory/repository"
	"asset-manager-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type DirectoryHandler struct {
	repo repository.Repository
}

func NewDirectoryHandler(repo repository.Repository) *DirectoryHandler {
	return &DirectoryHandler{repo: repo}
}

// ========== LIST: GET /v1/admin/users?search= ==========
// Danh sách user cho dropdown "Issued To", sắp theo display name
func (h *DirectoryHandler) List(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))

	users, err := h.repo.List(c.Request.Context(), search)
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("list directory users failed")
		response.InternalServerError(c, "Failed to list users")
		return
	}

	response.Success(c, http.StatusOK, "Get users successfully", users)
}
