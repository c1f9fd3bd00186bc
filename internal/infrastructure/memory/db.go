package memory

import (
	"encoding/json"
	"sync"
	"time"
)

// DB là store in-memory dùng cho STORE_DRIVER=memory và cho test.
// Các bảng mô phỏng schema Postgres; Update chạy như một transaction
// (rollback toàn bộ thay đổi nếu fn trả error).
type DB struct {
	mu     sync.RWMutex
	tables *Tables

	// clock có lock riêng để đọc được trong Update
	clockMu sync.Mutex
	now     func() time.Time
}

type Tables struct {
	Assets     map[int64]*AssetRow
	Categories map[int64]*CategoryRow
	Users      map[int64]*UserRow

	NextAssetID    int64
	NextCategoryID int64
	NextUserID     int64
}

type AssetRow struct {
	ID         int64
	Title      string
	CategoryID *int64
	ImageKey   string
	Meta       map[string]string
	History    json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CategoryRow struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ParentID    *int64
	CreatedAt   time.Time
}

type UserRow struct {
	ID          int64
	Login       string
	Nickname    string
	Email       string
	DisplayName string
}

func NewDB() *DB {
	return &DB{
		tables: &Tables{
			Assets:     map[int64]*AssetRow{},
			Categories: map[int64]*CategoryRow{},
			Users:      map[int64]*UserRow{},
		},
		now: time.Now,
	}
}

// SetClock thay đồng hồ của store (test)
func (db *DB) SetClock(now func() time.Time) {
	db.clockMu.Lock()
	defer db.clockMu.Unlock()
	db.now = now
}

func (db *DB) Now() time.Time {
	db.clockMu.Lock()
	defer db.clockMu.Unlock()
	return db.now().UTC()
}

func (db *DB) View(fn func(t *Tables) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(db.tables)
}

// Update chạy fn trên bản sao; chỉ commit khi fn thành công
func (db *DB) Update(fn func(t *Tables) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	work := db.tables.clone()
	if err := fn(work); err != nil {
		return err
	}
	db.tables = work
	return nil
}

func (t *Tables) clone() *Tables {
	out := &Tables{
		Assets:         make(map[int64]*AssetRow, len(t.Assets)),
		Categories:     make(map[int64]*CategoryRow, len(t.Categories)),
		Users:          make(map[int64]*UserRow, len(t.Users)),
		NextAssetID:    t.NextAssetID,
		NextCategoryID: t.NextCategoryID,
		NextUserID:     t.NextUserID,
	}
	for id, a := range t.Assets {
		row := *a
		row.Meta = make(map[string]string, len(a.Meta))
		for k, v := range a.Meta {
			row.Meta[k] = v
		}
		row.History = append(json.RawMessage(nil), a.History...)
		if a.CategoryID != nil {
			cid := *a.CategoryID
			row.CategoryID = &cid
		}
		out.Assets[id] = &row
	}
	for id, c := range t.Categories {
		row := *c
		out.Categories[id] = &row
	}
	for id, u := range t.Users {
		row := *u
		out.Users[id] = &row
	}
	return out
}

// InsertUser - directory là hệ thống ngoài, chỉ seed dữ liệu
func (t *Tables) InsertUser(u UserRow) int64 {
	if u.ID == 0 {
		t.NextUserID++
		u.ID = t.NextUserID
	} else if u.ID > t.NextUserID {
		t.NextUserID = u.ID
	}
	t.Users[u.ID] = &u
	return u.ID
}

func (t *Tables) InsertCategory(c CategoryRow) int64 {
	t.NextCategoryID++
	c.ID = t.NextCategoryID
	t.Categories[c.ID] = &c
	return c.ID
}

func (t *Tables) InsertAsset(a AssetRow) int64 {
	t.NextAssetID++
	a.ID = t.NextAssetID
	if a.Meta == nil {
		a.Meta = map[string]string{}
	}
	if a.History == nil {
		a.History = json.RawMessage("[]")
	}
	t.Assets[a.ID] = &a
	return a.ID
}

// CategoryBySlug trả nil nếu không có
func (t *Tables) CategoryBySlug(slug string) *CategoryRow {
	for _, c := range t.Categories {
		if c.Slug == slug {
			return c
		}
	}
	return nil
}
