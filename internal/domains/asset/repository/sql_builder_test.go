package repository

import (
	"testing"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/query"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestSQLBuilder_Leaves(t *testing.T) {
	tests := []struct {
		name     string
		pred     query.Predicate
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "title substring is escaped",
			pred:     query.TitleContains("50%_off"),
			wantSQL:  `a.title ILIKE $1 ESCAPE '\'`,
			wantArgs: []any{`%50\%\_off%`},
		},
		{
			name:     "attribute substring",
			pred:     query.AttrContains(model.FieldModel, "dell"),
			wantSQL:  `EXISTS (SELECT 1 FROM asset_meta m WHERE m.asset_id = a.id AND m.meta_key = $1 AND m.meta_value ILIKE $2 ESCAPE '\')`,
			wantArgs: []any{"_asset_manager_model", "%dell%"},
		},
		{
			name:     "attribute equality",
			pred:     query.AttrEquals(model.FieldBrand, "HP"),
			wantSQL:  `EXISTS (SELECT 1 FROM asset_meta m WHERE m.asset_id = a.id AND m.meta_key = $1 AND m.meta_value = $2)`,
			wantArgs: []any{"_asset_manager_brand", "HP"},
		},
		{
			name:     "category slug",
			pred:     query.CategorySlugEquals("laptops"),
			wantSQL:  `EXISTS (SELECT 1 FROM asset_categories c2 WHERE c2.id = a.category_id AND c2.slug = $1)`,
			wantArgs: []any{"laptops"},
		},
		{
			name:     "category ids",
			pred:     query.CategoryIn([]int64{3, 9}),
			wantSQL:  `a.category_id = ANY($1::bigint[])`,
			wantArgs: []any{pq.Array([]int64{3, 9})},
		},
		{
			name:     "owner ids compare as text",
			pred:     query.OwnerIn([]int64{7}),
			wantSQL:  `EXISTS (SELECT 1 FROM asset_meta m WHERE m.asset_id = a.id AND m.meta_key = $1 AND m.meta_value = ANY($2::text[]))`,
			wantArgs: []any{"_asset_manager_issued_to", pq.Array([]string{"7"})},
		},
		{
			name:     "match all",
			pred:     query.All(),
			wantSQL:  "TRUE",
			wantArgs: nil,
		},
		{
			name:     "empty or",
			pred:     query.Predicate{Op: query.OpOr},
			wantSQL:  "FALSE",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newSQLBuilder()
			assert.Equal(t, tt.wantSQL, b.Where(tt.pred))
			assert.Equal(t, tt.wantArgs, b.Args())
		})
	}
}

func TestSQLBuilder_Composite(t *testing.T) {
	pred := query.And(
		query.AttrEquals(model.FieldBrand, "HP"),
		query.Or(query.TitleContains("dell"), query.CategoryIn([]int64{2})),
	)

	b := newSQLBuilder()
	got := b.Where(pred)

	assert.Equal(t,
		`(EXISTS (SELECT 1 FROM asset_meta m WHERE m.asset_id = a.id AND m.meta_key = $1 AND m.meta_value = $2)`+
			` AND (a.title ILIKE $3 ESCAPE '\' OR a.category_id = ANY($4::bigint[])))`,
		got)
	assert.Len(t, b.Args(), 4)
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "a.title ASC, a.id ASC", orderBy(SortTitle))
	assert.Equal(t, "a.created_at DESC, a.id DESC", orderBy(SortNewest))
}
