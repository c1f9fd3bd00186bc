package handler

import (
	"net/http"
	"strconv"
	"strings"

	"asset-manager-backend/internal/domains/category/model"
	"asset-manager-backend/internal/domains/category/service"
	"asset-manager-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// HANDLER STRUCT
// ============================================================
type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// ========== CREATE: POST /v1/admin/categories ==========
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if model.HandleCategoryError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Create a category successfully", resp)
}

// ========== READ: GET /v1/categories/by-slug/:slug ==========
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		response.BadRequest(c, "invalid slug")
		return
	}

	resp, err := h.service.GetBySlug(c.Request.Context(), slug)
	if model.HandleCategoryError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get category successfully", resp)
}

// ========== LIST: GET /v1/categories?non_empty=true ==========
// non_empty=true dùng cho category facet của admin list
func (h *CategoryHandler) List(c *gin.Context) {
	nonEmpty, _ := strconv.ParseBool(c.DefaultQuery("non_empty", "false"))

	resp, err := h.service.List(c.Request.Context(), nonEmpty)
	if model.HandleCategoryError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get categories successfully", resp)
}
