package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/query"
	"asset-manager-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// ============================================================
// RECORD STORE
// ============================================================

type postgresRecordStore struct {
	db database.DBTX
}

// NewPostgresRecordStore - db là pool hoặc pgx.Tx
func NewPostgresRecordStore(db database.DBTX) RecordStore {
	return &postgresRecordStore{db: db}
}

func (r *postgresRecordStore) Create(ctx context.Context, title string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO assets (title) VALUES ($1) RETURNING id`, title,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	return id, nil
}

func (r *postgresRecordStore) Get(ctx context.Context, id int64) (model.Attributes, error) {
	if err := r.ensureExists(ctx, id); err != nil {
		return nil, err
	}

	byID, err := r.loadMeta(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if attrs, ok := byID[id]; ok {
		return attrs, nil
	}
	return model.Attributes{}, nil
}

func (r *postgresRecordStore) Set(ctx context.Context, id int64, key model.FieldKey, value string) error {
	if err := r.touch(ctx, id); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO asset_meta (asset_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (asset_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value
	`, id, model.MetaKey(key), value)
	if err != nil {
		return fmt.Errorf("upsert %s for asset %d: %w", key, id, err)
	}
	return nil
}

func (r *postgresRecordStore) GetTitle(ctx context.Context, id int64) (string, error) {
	var title string
	err := r.db.QueryRow(ctx, `SELECT title FROM assets WHERE id = $1`, id).Scan(&title)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrAssetNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get title of asset %d: %w", id, err)
	}
	return title, nil
}

func (r *postgresRecordStore) SetTitle(ctx context.Context, id int64, title string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE assets SET title = $2, updated_at = NOW() WHERE id = $1`, id, title)
	if err != nil {
		return fmt.Errorf("set title of asset %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssetNotFound
	}
	return nil
}

// AppendHistory nối entry vào cuối mảng jsonb, không đọc-sửa-ghi
func (r *postgresRecordStore) AppendHistory(ctx context.Context, id int64, entry model.HistoryEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE assets
		SET history = COALESCE(history, '[]'::jsonb) || jsonb_build_array($2::jsonb)
		WHERE id = $1
	`, id, string(raw))
	if err != nil {
		return fmt.Errorf("append history to asset %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssetNotFound
	}
	return nil
}

func (r *postgresRecordStore) History(ctx context.Context, id int64) ([]model.HistoryEntry, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(history, '[]'::jsonb) FROM assets WHERE id = $1`, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get history of asset %d: %w", id, err)
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history of asset %d: %w", id, err)
	}
	return entries, nil
}

const assetColumns = `
	a.id, a.title, a.category_id, COALESCE(c.name, ''), COALESCE(c.slug, ''),
	a.image_key, a.created_at, a.updated_at`

const assetFrom = `
	FROM assets a
	LEFT JOIN asset_categories c ON c.id = a.category_id`

func (r *postgresRecordStore) FindByID(ctx context.Context, id int64) (*model.Asset, error) {
	row := r.db.QueryRow(ctx, `SELECT `+assetColumns+assetFrom+` WHERE a.id = $1`, id)

	asset, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get asset %d: %w", id, err)
	}

	byID, err := r.loadMeta(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if attrs, ok := byID[id]; ok {
		asset.Attributes = attrs
	}
	return asset, nil
}

func (r *postgresRecordStore) Find(ctx context.Context, pred query.Predicate, page Page) ([]model.Asset, int64, error) {
	b := newSQLBuilder()
	where := b.Where(pred)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+assetFrom+` WHERE `+where, b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}
	if total == 0 {
		return []model.Asset{}, 0, nil
	}

	sql := `SELECT ` + assetColumns + assetFrom + ` WHERE ` + where + ` ORDER BY ` + orderBy(page.Sort)
	if page.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %s OFFSET %s", b.arg(page.Limit), b.arg(page.Offset))
	}

	rows, err := r.db.Query(ctx, sql, b.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("find assets: %w", err)
	}
	defer rows.Close()

	var assets []model.Asset
	var ids []int64
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, *a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate assets: %w", err)
	}

	byID, err := r.loadMeta(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range assets {
		if attrs, ok := byID[assets[i].ID]; ok {
			assets[i].Attributes = attrs
		}
	}
	return assets, total, nil
}

func (r *postgresRecordStore) DistinctValues(ctx context.Context, key model.FieldKey) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT meta_value FROM asset_meta
		WHERE meta_key = $1 AND meta_value <> ''
		ORDER BY meta_value
	`, model.MetaKey(key))
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", key, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", key, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// CountBy group asset theo giá trị của các field; field chưa set → ""
func (r *postgresRecordStore) CountBy(ctx context.Context, keys ...model.FieldKey) ([]GroupCount, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("count by: no keys")
	}

	b := newSQLBuilder()
	selects := make([]string, len(keys))
	joins := make([]string, len(keys))
	groups := make([]string, len(keys))
	for i, k := range keys {
		alias := fmt.Sprintf("m%d", i)
		selects[i] = fmt.Sprintf("COALESCE(%s.meta_value, '')", alias)
		joins[i] = fmt.Sprintf("LEFT JOIN asset_meta %s ON %s.asset_id = a.id AND %s.meta_key = %s",
			alias, alias, alias, b.arg(model.MetaKey(k)))
		groups[i] = fmt.Sprintf("%d", i+1)
	}

	sql := "SELECT " + strings.Join(selects, ", ") + ", COUNT(*) FROM assets a " +
		strings.Join(joins, " ") + " GROUP BY " + strings.Join(groups, ", ")

	rows, err := r.db.Query(ctx, sql, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("count assets by %v: %w", keys, err)
	}
	defer rows.Close()

	var out []GroupCount
	for rows.Next() {
		values := make([]string, len(keys))
		dest := make([]any, 0, len(keys)+1)
		for i := range values {
			dest = append(dest, &values[i])
		}
		var count int64
		dest = append(dest, &count)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, GroupCount{Values: values, Count: count})
	}
	return out, rows.Err()
}

// CountByCategory - key "" là asset chưa có category
func (r *postgresRecordStore) CountByCategory(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT COALESCE(c.name, ''), COUNT(*)`+assetFrom+` GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("count assets by category: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		out[name] += count
	}
	return out, rows.Err()
}

func (r *postgresRecordStore) SetImage(ctx context.Context, id int64, imageKey string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE assets SET image_key = $2, updated_at = NOW() WHERE id = $1`, id, imageKey)
	if err != nil {
		return fmt.Errorf("set image of asset %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssetNotFound
	}
	return nil
}

func (r *postgresRecordStore) ensureExists(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM assets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check asset %d: %w", id, err)
	}
	if !exists {
		return model.ErrAssetNotFound
	}
	return nil
}

func (r *postgresRecordStore) touch(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE assets SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch asset %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssetNotFound
	}
	return nil
}

// loadMeta đọc attribute của nhiều asset trong một query
func (r *postgresRecordStore) loadMeta(ctx context.Context, ids []int64) (map[int64]model.Attributes, error) {
	out := make(map[int64]model.Attributes, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT asset_id, meta_key, meta_value FROM asset_meta
		WHERE asset_id = ANY($1::bigint[])
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load asset meta: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			assetID    int64
			key, value string
		)
		if err := rows.Scan(&assetID, &key, &value); err != nil {
			return nil, fmt.Errorf("scan asset meta: %w", err)
		}
		field, ok := model.FieldKeyFromMeta(key)
		if !ok {
			continue
		}
		if out[assetID] == nil {
			out[assetID] = model.Attributes{}
		}
		out[assetID][field] = value
	}
	return out, rows.Err()
}

func scanAsset(row pgx.Row) (*model.Asset, error) {
	a := &model.Asset{Attributes: model.Attributes{}}
	err := row.Scan(&a.ID, &a.Title, &a.CategoryID, &a.CategoryName, &a.CategorySlug,
		&a.ImageKey, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ============================================================
// TAXONOMY STORE
// ============================================================

type postgresTaxonomyStore struct {
	db database.DBTX
}

func NewPostgresTaxonomyStore(db database.DBTX) TaxonomyStore {
	return &postgresTaxonomyStore{db: db}
}

func (r *postgresTaxonomyStore) TermsByNameSubstring(ctx context.Context, text string) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM asset_categories
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY id
	`, likePattern(text))
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresTaxonomyStore) TermName(ctx context.Context, id int64) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT name FROM asset_categories WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrCategoryNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get category %d: %w", id, err)
	}
	return name, nil
}

func (r *postgresTaxonomyStore) RecordTerm(ctx context.Context, recordID int64) (*int64, error) {
	var termID *int64
	err := r.db.QueryRow(ctx, `SELECT category_id FROM assets WHERE id = $1`, recordID).Scan(&termID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category of asset %d: %w", recordID, err)
	}
	return termID, nil
}

func (r *postgresTaxonomyStore) SetRecordTerm(ctx context.Context, recordID int64, termID *int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE assets SET category_id = $2, updated_at = NOW() WHERE id = $1`, recordID, termID)
	if err != nil {
		return fmt.Errorf("set category of asset %d: %w", recordID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssetNotFound
	}
	return nil
}

// ============================================================
// CLOCK + TRANSACTION
// ============================================================

type postgresUserStore struct {
	db database.DBTX
}

func NewPostgresUserStore(db database.DBTX) UserStore {
	return &postgresUserStore{db: db}
}

func (r *postgresUserStore) DisplayName(ctx context.Context, id int64) (string, bool, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT display_name FROM directory_users WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get display name of user %d: %w", id, err)
	}
	return name, true, nil
}

type postgresClock struct {
	db database.DBTX
}

func NewPostgresClock(db database.DBTX) Clock {
	return &postgresClock{db: db}
}

// Now - trong transaction NOW() là thời điểm bắt đầu transaction
func (c *postgresClock) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := c.db.QueryRow(ctx, `SELECT NOW()`).Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("read store clock: %w", err)
	}
	return now.UTC(), nil
}

// NewPostgresStores gắn các store vào cùng một DBTX
func NewPostgresStores(db database.DBTX) Stores {
	return Stores{
		Records:  NewPostgresRecordStore(db),
		Taxonomy: NewPostgresTaxonomyStore(db),
		Users:    NewPostgresUserStore(db),
		Clock:    NewPostgresClock(db),
	}
}

type postgresTxRunner struct {
	pool database.TxBeginner
}

func NewPostgresTxRunner(pool database.TxBeginner) TxRunner {
	return &postgresTxRunner{pool: pool}
}

func (t *postgresTxRunner) WithinTx(ctx context.Context, fn func(s Stores) error) error {
	return database.WithTransaction(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(NewPostgresStores(tx))
	})
}
