package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/service"
	"asset-manager-backend/internal/shared/middleware"
	"asset-manager-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// đọc dư 1 byte để service nhận ra file quá lớn
const maxUploadRead = 5<<20 + 1

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ============================================================
// HANDLER STRUCT
// ============================================================
type AssetHandler struct {
	service service.AssetService
}

func NewAssetHandler(svc service.AssetService) *AssetHandler {
	return &AssetHandler{service: svc}
}

func parseAssetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid asset ID", "ID must be a positive integer")
		return 0, false
	}
	return id, true
}

func bindListRequest(c *gin.Context) (model.ListAssetsRequest, bool) {
	var req model.ListAssetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return req, false
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return req, false
	}
	return req, true
}

// ========== LIST: GET /v1/admin/assets?search=&category=&brand=&page=&limit= ==========
func (h *AssetHandler) List(c *gin.Context) {
	req, ok := bindListRequest(c)
	if !ok {
		return
	}
	req.ApplyDefaults()

	items, total, err := h.service.List(c.Request.Context(), req)
	if model.HandleAssetError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Get assets successfully", items, &response.Meta{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: response.TotalPages(total, req.Limit),
	})
}

// ========== CREATE: POST /v1/admin/assets ==========
func (h *AssetHandler) Create(c *gin.Context) {
	var sub model.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), sub, middleware.ActorID(c))
	if model.HandleAssetError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Create asset successfully", result)
}

// ========== SAVE: PUT /v1/admin/assets/:id ==========
func (h *AssetHandler) Save(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	var sub model.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.service.Save(c.Request.Context(), id, sub, middleware.ActorID(c))
	if model.HandleAssetError(c, err) {
		return
	}

	message := "Asset saved"
	if len(result.Changes) == 0 {
		message = "No changes"
	}
	response.Success(c, http.StatusOK, message, result)
}

// ========== READ: GET /v1/admin/assets/:id ==========
func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := h.service.Get(c.Request.Context(), id)
	if model.HandleAssetError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get asset successfully", asset)
}

// ========== HISTORY: GET /v1/admin/assets/:id/history ==========
func (h *AssetHandler) History(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	items, err := h.service.History(c.Request.Context(), id)
	if model.HandleAssetError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get asset history successfully", items)
}

// ========== NOTICES: GET /v1/admin/assets/:id/notices ==========
// id = 0 là notices của lần tạo mới bị từ chối
func (h *AssetHandler) Notices(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		response.Error(c, http.StatusBadRequest, "Invalid asset ID", "ID must be a non-negative integer")
		return
	}

	notices, err := h.service.Notices(c.Request.Context(), id, middleware.ActorID(c))
	if model.HandleAssetError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get notices successfully", notices)
}

// ========== BRANDS: GET /v1/admin/assets/brands ==========
func (h *AssetHandler) Brands(c *gin.Context) {
	brands, err := h.service.Brands(c.Request.Context())
	if model.HandleAssetError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get brands successfully", brands)
}

// ========== DASHBOARD: GET /v1/admin/assets/dashboard ==========
func (h *AssetHandler) Dashboard(c *gin.Context) {
	dash, err := h.service.Dashboard(c.Request.Context())
	if model.HandleAssetError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get dashboard successfully", dash)
}

// ========== EXPORT: GET /v1/admin/assets/export ==========
func (h *AssetHandler) Export(c *gin.Context) {
	req, ok := bindListRequest(c)
	if !ok {
		return
	}

	file, err := h.service.Export(c.Request.Context(), req)
	if model.HandleAssetError(c, err) {
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn().Err(err).Msg("close export file")
		}
	}()

	filename := fmt.Sprintf("assets-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if _, err := file.WriteTo(c.Writer); err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("write export file")
	}
}

// ========== IMAGE: POST /v1/admin/assets/:id/image (multipart, field "image") ==========
func (h *AssetHandler) AttachImage(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "image is required (multipart/form-data)")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "cannot read uploaded image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadRead))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "cannot read uploaded image")
		return
	}

	img, err := h.service.AttachImage(c.Request.Context(), id, data)
	if model.HandleAssetError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Image uploaded successfully", img)
}

// ========== IMAGE: DELETE /v1/admin/assets/:id/image ==========
func (h *AssetHandler) RemoveImage(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	if err := h.service.RemoveImage(c.Request.Context(), id); model.HandleAssetError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Image removed successfully", nil)
}
