package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/query"
	"asset-manager-backend/internal/infrastructure/memory"
)

// memoryStore implements RecordStore, TaxonomyStore, UserStore và Clock trên memory.DB.
// tx != nil khi đang chạy trong WithinTx (lock đã được giữ).
type memoryStore struct {
	db *memory.DB
	tx *memory.Tables
}

func NewMemoryStores(db *memory.DB) Stores {
	s := &memoryStore{db: db}
	return Stores{Records: s, Taxonomy: s, Users: s, Clock: s}
}

type memoryTxRunner struct {
	db *memory.DB
}

func NewMemoryTxRunner(db *memory.DB) TxRunner {
	return &memoryTxRunner{db: db}
}

func (r *memoryTxRunner) WithinTx(ctx context.Context, fn func(s Stores) error) error {
	return r.db.Update(func(t *memory.Tables) error {
		s := &memoryStore{db: r.db, tx: t}
		return fn(Stores{Records: s, Taxonomy: s, Users: s, Clock: s})
	})
}

func (s *memoryStore) read(fn func(t *memory.Tables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.db.View(fn)
}

func (s *memoryStore) write(fn func(t *memory.Tables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.db.Update(fn)
}

func (s *memoryStore) asset(t *memory.Tables, id int64) (*memory.AssetRow, error) {
	row, ok := t.Assets[id]
	if !ok {
		return nil, model.ErrAssetNotFound
	}
	return row, nil
}

// ============ RECORD STORE ============

func (s *memoryStore) Create(_ context.Context, title string) (int64, error) {
	var id int64
	err := s.write(func(t *memory.Tables) error {
		now := s.db.Now()
		id = t.InsertAsset(memory.AssetRow{Title: title, CreatedAt: now, UpdatedAt: now})
		return nil
	})
	return id, err
}

func (s *memoryStore) Get(_ context.Context, id int64) (model.Attributes, error) {
	var attrs model.Attributes
	err := s.read(func(t *memory.Tables) error {
		row, err := s.asset(t, id)
		if err != nil {
			return err
		}
		attrs = attributesOf(row)
		return nil
	})
	return attrs, err
}

func (s *memoryStore) Set(_ context.Context, id int64, key model.FieldKey, value string) error {
	return s.write(func(t *memory.Tables) error {
		row, err := s.asset(t, id)
		if err != nil {
			return err
		}
		row.Meta[model.MetaKey(key)] = value
		row.UpdatedAt = s.db.Now()
		return nil
	})
}

func (s *memoryStore) GetTitle(_ context.Context, id int64) (string, error) {
	var title string
	err := s.read(func(t *memory.Tables) error {
		row, err := s.asset(t, id)
		if err != nil {
			return err
		}
		title = row.Title
		return nil
	})
	return title, err
}

func (s *memoryStore) SetTitle(_ context.Context, id int64, title string) error {
	return s.write(func(t *memory.Tables) error {
		row, err := s.asset(t, id)
		if err != nil {
			return err
		}
		row.Title = title
		row.UpdatedAt = s.db.Now()
		return nil
	})
}

func (s *memoryStore) AppendHistory(_ context.Context, id int64, entry model.HistoryEntry) error {
	return s.write(func(t *memory.Tables) error {
		row, err := s.asset(t, id)
		if err != nil {
			return err
		}
		entries, err := decodeHistory(row.History)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(append(entries, entry))
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		row.History = raw
		return nil
	})
}

func (s *memoryStore) History(_ context.Context, id int64) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := s.read(func(t *memory.Tables) error {
		row, err := s.asset(t, id)
		if err != nil {
			return err
		}
		entries, err = decodeHistory(row.History)
		return err
	})
	return entries, err
}

func (s *memoryStore) FindByID(_ context.Context, id int64) (*model.Asset, error) {
	var asset *model.Asset
	err := s.read(func(t *memory.Tables) error {
		row, err := s.asset(t, id)
		if err != nil {
			return err
		}
		asset = toAsset(t, row)
		return nil
	})
	return asset, err
}

func (s *memoryStore) Find(_ context.Context, pred query.Predicate, page Page) ([]model.Asset, int64, error) {
	var matched []model.Asset
	err := s.read(func(t *memory.Tables) error {
		for _, row := range t.Assets {
			a := toAsset(t, row)
			c := query.Candidate{
				Title:        a.Title,
				Attributes:   a.Attributes,
				CategoryID:   a.CategoryID,
				CategorySlug: a.CategorySlug,
			}
			if pred.Match(c) {
				matched = append(matched, *a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sortAssets(matched, page.Sort)

	total := int64(len(matched))
	if page.Offset >= len(matched) {
		return []model.Asset{}, total, nil
	}
	matched = matched[page.Offset:]
	if page.Limit > 0 && len(matched) > page.Limit {
		matched = matched[:page.Limit]
	}
	return matched, total, nil
}

func (s *memoryStore) DistinctValues(_ context.Context, key model.FieldKey) ([]string, error) {
	values := []string{}
	err := s.read(func(t *memory.Tables) error {
		seen := map[string]bool{}
		for _, row := range t.Assets {
			v := row.Meta[model.MetaKey(key)]
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		return nil
	})
	sort.Strings(values)
	return values, err
}

func (s *memoryStore) CountBy(_ context.Context, keys ...model.FieldKey) ([]GroupCount, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("count by: no keys")
	}

	counts := map[string]*GroupCount{}
	err := s.read(func(t *memory.Tables) error {
		for _, row := range t.Assets {
			values := make([]string, len(keys))
			for i, k := range keys {
				values[i] = row.Meta[model.MetaKey(k)]
			}
			id := strings.Join(values, "\x00")
			if counts[id] == nil {
				counts[id] = &GroupCount{Values: values}
			}
			counts[id].Count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]GroupCount, 0, len(counts))
	for _, g := range counts {
		out = append(out, *g)
	}
	return out, nil
}

func (s *memoryStore) CountByCategory(_ context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	err := s.read(func(t *memory.Tables) error {
		for _, row := range t.Assets {
			name := ""
			if row.CategoryID != nil {
				if c, ok := t.Categories[*row.CategoryID]; ok {
					name = c.Name
				}
			}
			out[name]++
		}
		return nil
	})
	return out, err
}

func (s *memoryStore) SetImage(_ context.Context, id int64, imageKey string) error {
	return s.write(func(t *memory.Tables) error {
		row, err := s.asset(t, id)
		if err != nil {
			return err
		}
		row.ImageKey = imageKey
		row.UpdatedAt = s.db.Now()
		return nil
	})
}

// ============ TAXONOMY STORE ============

func (s *memoryStore) TermsByNameSubstring(_ context.Context, text string) ([]int64, error) {
	ids := []int64{}
	needle := strings.ToLower(text)
	err := s.read(func(t *memory.Tables) error {
		for id, c := range t.Categories {
			if strings.Contains(strings.ToLower(c.Name), needle) {
				ids = append(ids, id)
			}
		}
		return nil
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}

func (s *memoryStore) TermName(_ context.Context, id int64) (string, error) {
	var name string
	err := s.read(func(t *memory.Tables) error {
		c, ok := t.Categories[id]
		if !ok {
			return model.ErrCategoryNotFound
		}
		name = c.Name
		return nil
	})
	return name, err
}

func (s *memoryStore) RecordTerm(_ context.Context, recordID int64) (*int64, error) {
	var termID *int64
	err := s.read(func(t *memory.Tables) error {
		row, err := s.asset(t, recordID)
		if err != nil {
			return err
		}
		if row.CategoryID != nil {
			id := *row.CategoryID
			termID = &id
		}
		return nil
	})
	return termID, err
}

func (s *memoryStore) SetRecordTerm(_ context.Context, recordID int64, termID *int64) error {
	return s.write(func(t *memory.Tables) error {
		row, err := s.asset(t, recordID)
		if err != nil {
			return err
		}
		if termID == nil {
			row.CategoryID = nil
		} else {
			id := *termID
			row.CategoryID = &id
		}
		row.UpdatedAt = s.db.Now()
		return nil
	})
}

// ============ USER STORE ============

// DisplayName đọc qua s.tx khi trong WithinTx, không lock lại db
func (s *memoryStore) DisplayName(_ context.Context, id int64) (string, bool, error) {
	var (
		name  string
		found bool
	)
	err := s.read(func(t *memory.Tables) error {
		if row, ok := t.Users[id]; ok {
			name, found = row.DisplayName, true
		}
		return nil
	})
	return name, found, err
}

// ============ CLOCK ============

func (s *memoryStore) Now(_ context.Context) (time.Time, error) {
	return s.db.Now(), nil
}

// ============ HELPERS ============

func attributesOf(row *memory.AssetRow) model.Attributes {
	attrs := model.Attributes{}
	for k, v := range row.Meta {
		if field, ok := model.FieldKeyFromMeta(k); ok {
			attrs[field] = v
		}
	}
	return attrs
}

func toAsset(t *memory.Tables, row *memory.AssetRow) *model.Asset {
	a := &model.Asset{
		ID:         row.ID,
		Title:      row.Title,
		ImageKey:   row.ImageKey,
		Attributes: attributesOf(row),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.CategoryID != nil {
		id := *row.CategoryID
		a.CategoryID = &id
		if c, ok := t.Categories[id]; ok {
			a.CategoryName = c.Name
			a.CategorySlug = c.Slug
		}
	}
	return a
}

func decodeHistory(raw json.RawMessage) ([]model.HistoryEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []model.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

func sortAssets(assets []model.Asset, s Sort) {
	sort.SliceStable(assets, func(i, j int) bool {
		a, b := assets[i], assets[j]
		if s == SortTitle {
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return a.ID < b.ID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
