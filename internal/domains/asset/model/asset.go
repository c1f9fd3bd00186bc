package model

import (
	"strings"
	"time"
)

// ============ ENTITIES ============

// Attributes - canonical value của từng field, key theo schema
type Attributes map[FieldKey]string

func (a Attributes) Get(k FieldKey) string {
	return a[k]
}

func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Asset - Domain Entity (from store)
type Asset struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	CategoryID   *int64     `json:"category_id"`
	CategoryName string     `json:"category_name"`
	CategorySlug string     `json:"category_slug"`
	ImageKey     string     `json:"image_key,omitempty"`
	Attributes   Attributes `json:"attributes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// OwnerID trả về issued_to dạng số, 0 nếu chưa gán
func (a *Asset) OwnerID() int64 {
	return parseUserID(ComparableUserRef(a.Attributes.Get(FieldIssuedTo)))
}

// HistoryEntry - một dòng audit log, không sửa/xóa sau khi tạo.
// Được lưu thành JSON list theo thứ tự append.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   *int64    `json:"actor_id"`
	Note      string    `json:"note"`
}

// ============ SUBMISSION ============

// Submission - field set do admin gửi lên, chưa validate
type Submission struct {
	Values   map[FieldKey]string `json:"fields"`
	Category string              `json:"category"`
}

// Value trả về raw value đã trim
func (s Submission) Value(k FieldKey) string {
	return strings.TrimSpace(s.Values[k])
}
