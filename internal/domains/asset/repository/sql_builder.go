package repository

import (
	"fmt"
	"strconv"

	"asset-manager-backend/internal/domains/asset/model"
	"asset-manager-backend/internal/domains/asset/query"
	"asset-manager-backend/internal/shared/utils"

	"github.com/lib/pq"
)

// sqlBuilder compile predicate tree thành WHERE clause trên alias "a" (assets).
// Mọi giá trị đều đi qua placeholder.
type sqlBuilder struct {
	args []any
}

func newSQLBuilder(startArgs ...any) *sqlBuilder {
	return &sqlBuilder{args: startArgs}
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *sqlBuilder) Args() []any {
	return b.args
}

func (b *sqlBuilder) Where(p query.Predicate) string {
	switch p.Op {
	case query.OpAnd:
		if len(p.Children) == 0 {
			return "TRUE"
		}
		return "(" + utils.JoinWithAnd(b.children(p.Children)) + ")"

	case query.OpOr:
		if len(p.Children) == 0 {
			return "FALSE"
		}
		return "(" + utils.JoinWithOr(b.children(p.Children)) + ")"

	case query.OpTitleContains:
		return fmt.Sprintf(`a.title ILIKE %s ESCAPE '\'`, b.arg(likePattern(p.Value)))

	case query.OpAttrContains:
		return b.metaExists(p.Field, `m.meta_value ILIKE %s ESCAPE '\'`, likePattern(p.Value))

	case query.OpAttrEquals:
		return b.metaExists(p.Field, "m.meta_value = %s", p.Value)

	case query.OpCategorySlugEquals:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM asset_categories c2 WHERE c2.id = a.category_id AND c2.slug = %s)",
			b.arg(p.Value))

	case query.OpCategoryIn:
		return fmt.Sprintf("a.category_id = ANY(%s::bigint[])", b.arg(pq.Array(p.IDs)))

	case query.OpOwnerIn:
		owners := make([]string, len(p.IDs))
		for i, id := range p.IDs {
			owners[i] = strconv.FormatInt(id, 10)
		}
		return b.metaExists(p.Field, "m.meta_value = ANY(%s::text[])", pq.Array(owners))
	}

	return "FALSE"
}

func (b *sqlBuilder) children(ps []query.Predicate) []string {
	out := make([]string, len(ps))
	for i, c := range ps {
		out[i] = b.Where(c)
	}
	return out
}

// metaExists: EXISTS trên asset_meta với meta_key của field; cond chứa một %s cho value
func (b *sqlBuilder) metaExists(field model.FieldKey, cond string, value any) string {
	key := b.arg(model.MetaKey(field))
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM asset_meta m WHERE m.asset_id = a.id AND m.meta_key = %s AND %s)",
		key, fmt.Sprintf(cond, b.arg(value)))
}

func likePattern(term string) string {
	return "%" + utils.EscapeLike(term) + "%"
}

func orderBy(s Sort) string {
	if s == SortTitle {
		return "a.title ASC, a.id ASC"
	}
	return "a.created_at DESC, a.id DESC"
}
