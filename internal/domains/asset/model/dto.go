package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ============ REQUEST DTOs ============

// ListAssetsRequest - query params của admin list và export
type ListAssetsRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"` // category slug
	Brand    string `form:"brand"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (r *ListAssetsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(MaxPageLimit)),
		validation.Field(&r.Search, validation.Length(0, 200)),
	)
}

// ApplyDefaults - page/limit mặc định
func (r *ListAssetsRequest) ApplyDefaults() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = DefaultPageLimit
	}
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ============ RESPONSE DTOs ============

// AssetListItem - một dòng trong admin list
type AssetListItem struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	AssetTag      string `json:"asset_tag"`
	Model         string `json:"model"`
	SerialNumber  string `json:"serial_number"`
	Brand         string `json:"brand"`
	CategoryName  string `json:"category_name"`
	Location      string `json:"location"`
	Status        string `json:"status"`
	IssuedTo      string `json:"issued_to"`
	DatePurchased string `json:"date_purchased"`
}

// AssetResponse - chi tiết một asset
type AssetResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	CategoryID   *int64     `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Attributes   Attributes `json:"attributes"`
	IssuedTo     string     `json:"issued_to_display"`
	ImageURL     string     `json:"image_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SaveResult - kết quả một lần save
type SaveResult struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Changes []string `json:"changes"`
}

// HistoryItem - history entry đã resolve tên actor
type HistoryItem struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   *int64    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Note      string    `json:"note"`
}

// DashboardResponse - số lượng asset theo status, owner, category
type DashboardResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByOwner    map[string]int64 `json:"by_owner"`
	ByCategory map[string]int64 `json:"by_category"`
}

type ImageResponse struct {
	ImageKey string `json:"image_key"`
	ImageURL string `json:"image_url"`
}
