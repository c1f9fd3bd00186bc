package repository

import (
	"context"
	"time"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/query"
)

// RecordStore - attribute/title/history storage của asset
type RecordStore interface {
	// Create tạo record rỗng với title placeholder, trả về ID do store cấp
	Create(ctx context.Context, title string) (int64, error)
	Get(ctx context.Context, id int64) (model.Attributes, error)
	Set(ctx context.Context, id int64, key model.FieldKey, value string) error
	GetTitle(ctx context.Context, id int64) (string, error)
	SetTitle(ctx context.Context, id int64, title string) error

	AppendHistory(ctx context.Context, id int64, entry model.HistoryEntry) error
	History(ctx context.Context, id int64) ([]model.HistoryEntry, error)

	FindByID(ctx context.Context, id int64) (*model.Asset, error)
	Find(ctx context.Context, pred query.Predicate, page Page) ([]model.Asset, int64, error)
	DistinctValues(ctx context.Context, key model.FieldKey) ([]string, error)
	CountBy(ctx context.Context, keys ...model.FieldKey) ([]GroupCount, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)

	SetImage(ctx context.Context, id int64, imageKey string) error
}

// TaxonomyStore - category reference của asset
type TaxonomyStore interface {
	TermsByNameSubstring(ctx context.Context, text string) ([]int64, error)
	// TermName trả model.ErrCategoryNotFound nếu không tồn tại
	TermName(ctx context.Context, id int64) (string, error)
	RecordTerm(ctx context.Context, recordID int64) (*int64, error)
	SetRecordTerm(ctx context.Context, recordID int64, termID *int64) error
}

// UserStore - tra display name của owner trong cùng connection/transaction
type UserStore interface {
	DisplayName(ctx context.Context, id int64) (name string, found bool, err error)
}

// Clock - thời gian theo store, dùng cho history timestamp
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}

// Stores - bộ repository gắn với cùng một connection/transaction
type Stores struct {
	Records  RecordStore
	Taxonomy TaxonomyStore
	Users    UserStore
	Clock    Clock
}

// TxRunner chạy fn trong một transaction; fn error → rollback
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(s Stores) error) error
}

// Sort order cho Find
type Sort int

const (
	SortNewest Sort = iota
	SortTitle
)

// Page - Limit 0 = không giới hạn
type Page struct {
	Limit  int
	Offset int
	Sort   Sort
}

// GroupCount - một nhóm của CountBy, Values theo thứ tự keys
type GroupCount struct {
	Values []string
	Count  int64
}
