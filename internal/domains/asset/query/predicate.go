package query

import (
	"strconv"
	"strings"

	"asset-manager-backend/internal/domains/asset/model"
)

// Op - loại node trong predicate tree
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpTitleContains
	OpAttrContains
	OpAttrEquals
	OpCategorySlugEquals
	OpCategoryIn
	OpOwnerIn
)

// Predicate là một cây điều kiện bất biến trên asset record.
// And rỗng = luôn đúng, Or rỗng = luôn sai.
type Predicate struct {
	Op       Op
	Field    model.FieldKey
	Value    string
	IDs      []int64
	Children []Predicate
}

// All khớp mọi record
func All() Predicate {
	return Predicate{Op: OpAnd}
}

// And bỏ qua các child luôn đúng; một child duy nhất được trả về nguyên vẹn
func And(children ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(children))
	for _, c := range children {
		if c.IsAll() {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return Predicate{Op: OpAnd, Children: kept}
}

func Or(children ...Predicate) Predicate {
	if len(children) == 1 {
		return children[0]
	}
	return Predicate{Op: OpOr, Children: append([]Predicate(nil), children...)}
}

func TitleContains(term string) Predicate {
	return Predicate{Op: OpTitleContains, Value: term}
}

func AttrContains(field model.FieldKey, term string) Predicate {
	return Predicate{Op: OpAttrContains, Field: field, Value: term}
}

func AttrEquals(field model.FieldKey, value string) Predicate {
	return Predicate{Op: OpAttrEquals, Field: field, Value: value}
}

func CategorySlugEquals(slug string) Predicate {
	return Predicate{Op: OpCategorySlugEquals, Value: slug}
}

func CategoryIn(ids []int64) Predicate {
	return Predicate{Op: OpCategoryIn, IDs: append([]int64(nil), ids...)}
}

// OwnerIn khớp issued_to với một trong các user ID
func OwnerIn(ids []int64) Predicate {
	return Predicate{Op: OpOwnerIn, Field: model.FieldIssuedTo, IDs: append([]int64(nil), ids...)}
}

func (p Predicate) IsAll() bool {
	return p.Op == OpAnd && len(p.Children) == 0
}

// Candidate - phần của record mà predicate cần để đánh giá in-memory
type Candidate struct {
	Title        string
	Attributes   model.Attributes
	CategoryID   *int64
	CategorySlug string
}

// Match đánh giá predicate trên một candidate. Substring match không phân biệt
// hoa thường, equality thì phân biệt (giống ILIKE và = của store).
func (p Predicate) Match(c Candidate) bool {
	switch p.Op {
	case OpAnd:
		for _, child := range p.Children {
			if !child.Match(c) {
				return false
			}
		}
		return true

	case OpOr:
		for _, child := range p.Children {
			if child.Match(c) {
				return true
			}
		}
		return false

	case OpTitleContains:
		return containsFold(c.Title, p.Value)

	case OpAttrContains:
		return containsFold(c.Attributes.Get(p.Field), p.Value)

	case OpAttrEquals:
		return c.Attributes.Get(p.Field) == p.Value

	case OpCategorySlugEquals:
		return c.CategoryID != nil && c.CategorySlug == p.Value

	case OpCategoryIn:
		return c.CategoryID != nil && containsID(p.IDs, *c.CategoryID)

	case OpOwnerIn:
		owner := c.Attributes.Get(p.Field)
		for _, id := range p.IDs {
			if owner == strconv.FormatInt(id, 10) {
				return true
			}
		}
		return false
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
