package query

import (
	"strings"

	"asset-manager-backend/internal/domains/asset/model"
)

// Selection - facet được chọn trên admin list, rỗng = không chọn
type Selection struct {
	CategorySlug string
	Brand        string
}

// BuildFacets: mỗi facet có mặt thêm một điều kiện độc lập, AND với nhau.
// Brand so khớp chính xác với giá trị canonical, khác với search (substring).
func BuildFacets(sel Selection) Predicate {
	var parts []Predicate

	if slug := strings.TrimSpace(sel.CategorySlug); slug != "" {
		parts = append(parts, CategorySlugEquals(slug))
	}
	if brand := strings.TrimSpace(sel.Brand); brand != "" {
		parts = append(parts, AttrEquals(model.FieldBrand, model.CanonicalText(brand)))
	}

	return And(parts...)
}
