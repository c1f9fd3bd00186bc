package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"asset-manager-backend/internal/domains/asset/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTerms struct {
	names map[int64]string
	calls int
	last  string
}

func (s *stubTerms) TermsByNameSubstring(_ context.Context, text string) ([]int64, error) {
	s.calls++
	s.last = text
	var ids []int64
	for id, name := range s.names {
		if strings.Contains(strings.ToLower(name), strings.ToLower(text)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type stubUsers struct {
	names   map[int64]string
	columns []string
	calls   int
	err     error
}

func (s *stubUsers) UsersMatching(_ context.Context, text string, columns []string) ([]int64, error) {
	s.calls++
	s.columns = columns
	if s.err != nil {
		return nil, s.err
	}
	var ids []int64
	for id, name := range s.names {
		if strings.Contains(strings.ToLower(name), strings.ToLower(text)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func catID(id int64) *int64 { return &id }

// fixture: mỗi asset khớp "dell" qua đúng một nguồn
func fixture() map[string]Candidate {
	return map[string]Candidate{
		"by-title": {
			Title:      "Dell monitor for reception",
			Attributes: model.Attributes{model.FieldBrand: "HP", model.FieldIssuedTo: ""},
			CategoryID: catID(1), CategorySlug: "monitors",
		},
		"by-brand": {
			Title:      "Asset: IT-2",
			Attributes: model.Attributes{model.FieldBrand: "Dell"},
			CategoryID: catID(1), CategorySlug: "monitors",
		},
		"by-model": {
			Title:      "Asset: IT-3",
			Attributes: model.Attributes{model.FieldBrand: "HP", model.FieldModel: "Dell-compatible dock"},
			CategoryID: catID(1), CategorySlug: "monitors",
		},
		"by-category": {
			Title:      "Asset: IT-4",
			Attributes: model.Attributes{model.FieldBrand: "Lenovo"},
			CategoryID: catID(2), CategorySlug: "dell-spares",
		},
		"by-owner": {
			Title:      "Asset: IT-5",
			Attributes: model.Attributes{model.FieldBrand: "HP", model.FieldIssuedTo: "7"},
			CategoryID: catID(1), CategorySlug: "monitors",
		},
		"by-description-only": {
			Title:      "Asset: IT-6",
			Attributes: model.Attributes{model.FieldBrand: "HP", model.FieldDescription: "replaces old dell"},
			CategoryID: catID(1), CategorySlug: "monitors",
		},
		"no-match": {
			Title:      "Asset: IT-7",
			Attributes: model.Attributes{model.FieldBrand: "Apple", model.FieldIssuedTo: "8"},
			CategoryID: catID(1), CategorySlug: "monitors",
		},
	}
}

func newEngine() (*SearchEngine, *stubTerms, *stubUsers) {
	terms := &stubTerms{names: map[int64]string{1: "Monitors", 2: "Dell Spares"}}
	users := &stubUsers{names: map[int64]string{7: "Wendell Pierce", 8: "Ann Lee"}}
	return NewSearchEngine(terms, users), terms, users
}

func matching(p Predicate, set map[string]Candidate) []string {
	var out []string
	for name, c := range set {
		if p.Match(c) {
			out = append(out, name)
		}
	}
	return out
}

func TestSearch_UnionAcrossSources(t *testing.T) {
	engine, _, users := newEngine()

	pred, err := engine.Plan(context.Background(), NewRequest("dell", "", ""))
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"by-title", "by-brand", "by-model", "by-category", "by-owner"},
		matching(pred, fixture()))
	assert.Equal(t, OwnerSearchColumns, users.columns)
}

func TestSearch_BrandFacetNarrows(t *testing.T) {
	engine, _, _ := newEngine()

	pred, err := engine.Plan(context.Background(), NewRequest("dell", "", "HP"))
	require.NoError(t, err)

	got := matching(pred, fixture())
	assert.ElementsMatch(t, []string{"by-title", "by-model", "by-owner"}, got)
	for _, name := range got {
		assert.Equal(t, "HP", fixture()[name].Attributes.Get(model.FieldBrand))
	}
}

func TestSearch_CategoryFacet(t *testing.T) {
	engine, _, _ := newEngine()

	pred, err := engine.Plan(context.Background(), NewRequest("dell", "dell-spares", ""))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"by-category"}, matching(pred, fixture()))
}

func TestSearch_RequestIsolation(t *testing.T) {
	engine, terms, users := newEngine()
	ctx := context.Background()

	_, err := engine.Plan(ctx, NewRequest("dell", "", "HP"))
	require.NoError(t, err)

	pred, err := engine.Plan(ctx, NewRequest("", "", ""))
	require.NoError(t, err)

	assert.True(t, pred.IsAll())
	assert.Len(t, matching(pred, fixture()), len(fixture()))
	assert.Equal(t, 1, terms.calls, "no lookup without a search term")
	assert.Equal(t, 1, users.calls)
}

func TestSearch_NoLookupMatches(t *testing.T) {
	engine, _, _ := newEngine()

	pred, err := engine.Build(context.Background(), "zzz", All())
	require.NoError(t, err)

	require.Equal(t, OpOr, pred.Op)
	assert.Len(t, pred.Children, 1+len(model.SearchableFields))
	for _, c := range pred.Children {
		assert.NotEqual(t, OpCategoryIn, c.Op)
		assert.NotEqual(t, OpOwnerIn, c.Op)
		assert.NotEqual(t, model.FieldDescription, c.Field)
	}
}

func TestSearch_LookupErrorPropagates(t *testing.T) {
	engine, _, users := newEngine()
	users.err = errors.New("directory down")

	_, err := engine.Plan(context.Background(), NewRequest("dell", "", ""))
	assert.ErrorIs(t, err, users.err)
}

func TestSearch_MatchesEscapedStoredText(t *testing.T) {
	engine, terms, _ := newEngine()
	ctx := context.Background()

	stored := Candidate{
		Title: model.CanonicalText("Asset: Q&A-1"),
		Attributes: model.Attributes{
			model.FieldBrand:    model.CanonicalText("AT&T"),
			model.FieldLocation: model.CanonicalText("Bob's office"),
		},
	}

	tests := []struct {
		name string
		req  Request
	}{
		{"apostrophe in location", NewRequest("Bob's", "", "")},
		{"ampersand in brand", NewRequest("at&t", "", "")},
		{"ampersand in title", NewRequest("Q&A", "", "")},
		{"already escaped term", NewRequest("AT&amp;T", "", "")},
		{"brand facet", NewRequest("", "", "AT&T")},
		{"brand facet with search", NewRequest("office", "", "AT&T")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := engine.Plan(ctx, tt.req)
			require.NoError(t, err)
			assert.True(t, pred.Match(stored))
		})
	}

	// category lookup nhận term gốc
	_, err := engine.Plan(ctx, NewRequest("Bob's", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "Bob's", terms.last)
}

func TestBuildFacets(t *testing.T) {
	assert.True(t, BuildFacets(Selection{}).IsAll())
	assert.True(t, BuildFacets(Selection{CategorySlug: "  "}).IsAll())

	p := BuildFacets(Selection{Brand: "HP"})
	assert.Equal(t, AttrEquals(model.FieldBrand, "HP"), p)

	p = BuildFacets(Selection{CategorySlug: "laptops", Brand: "HP"})
	require.Equal(t, OpAnd, p.Op)
	assert.Len(t, p.Children, 2)
}

func TestMatch_BrandFacetIsExact(t *testing.T) {
	c := Candidate{Attributes: model.Attributes{model.FieldBrand: "HP Inc"}}

	assert.False(t, AttrEquals(model.FieldBrand, "HP").Match(c))
	assert.False(t, AttrEquals(model.FieldBrand, "hp inc").Match(c))
	assert.True(t, AttrContains(model.FieldBrand, "hp").Match(c))
}

func TestMatch_EmptyComposites(t *testing.T) {
	c := Candidate{}
	assert.True(t, And().Match(c))
	assert.False(t, Predicate{Op: OpOr}.Match(c))
	assert.False(t, CategoryIn([]int64{1}).Match(c), "uncategorized never matches")
}
