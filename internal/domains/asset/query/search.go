package query

import (
	"context"
	"fmt"
	"strings"

	"asset-manager-backend/internal/domains/asset/model"
)

// OwnerSearchColumns - các cột directory được so khớp với search term
var OwnerSearchColumns = []string{"login", "nickname", "email", "display_name"}

// TermMatcher tìm category ID có tên chứa text (không phân biệt hoa thường)
type TermMatcher interface {
	TermsByNameSubstring(ctx context.Context, text string) ([]int64, error)
}

// UserMatcher tìm user ID có một trong các cột chứa text
type UserMatcher interface {
	UsersMatching(ctx context.Context, text string, columns []string) ([]int64, error)
}

// Request - trạng thái của đúng một list request, không dùng lại giữa các request
type Request struct {
	Selection Selection
	Term      string
}

func NewRequest(term, categorySlug, brand string) Request {
	return Request{
		Selection: Selection{
			CategorySlug: strings.TrimSpace(categorySlug),
			Brand:        strings.TrimSpace(brand),
		},
		Term: strings.TrimSpace(term),
	}
}

// SearchEngine mở rộng search term thành predicate OR trên nhiều nguồn.
// Không giữ state giữa các lần gọi.
type SearchEngine struct {
	terms TermMatcher
	users UserMatcher
}

func NewSearchEngine(terms TermMatcher, users UserMatcher) *SearchEngine {
	return &SearchEngine{terms: terms, users: users}
}

// Plan dựng predicate hoàn chỉnh cho một request
func (e *SearchEngine) Plan(ctx context.Context, req Request) (Predicate, error) {
	facets := BuildFacets(req.Selection)
	if req.Term == "" {
		return facets, nil
	}
	return e.Build(ctx, req.Term, facets)
}

// Build: (title ~ term OR attr ~ term ... OR category IN ids OR owner IN ids) AND facets.
// Title/attr được lưu ở dạng canonical nên so với term đã canonical; category và
// directory lưu text thô nên dùng term gốc.
func (e *SearchEngine) Build(ctx context.Context, term string, facets Predicate) (Predicate, error) {
	categoryIDs, err := e.terms.TermsByNameSubstring(ctx, term)
	if err != nil {
		return Predicate{}, fmt.Errorf("lookup categories for search: %w", err)
	}

	ownerIDs, err := e.users.UsersMatching(ctx, term, OwnerSearchColumns)
	if err != nil {
		return Predicate{}, fmt.Errorf("lookup owners for search: %w", err)
	}

	stored := model.CanonicalText(term)

	branches := make([]Predicate, 0, len(model.SearchableFields)+3)
	branches = append(branches, TitleContains(stored))
	for _, f := range model.SearchableFields {
		branches = append(branches, AttrContains(f, stored))
	}
	if len(categoryIDs) > 0 {
		branches = append(branches, CategoryIn(categoryIDs))
	}
	if len(ownerIDs) > 0 {
		branches = append(branches, OwnerIn(ownerIDs))
	}

	return And(facets, Or(branches...)), nil
}
