package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"rental-marketplace-backend/internal/query"
)

var sqlOps = map[query.Op]string{
	query.OpEq:  "=",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

// whereBuilder accumulates AND-ed predicates, numbering each ? placeholder
// as the next $n argument.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (b *whereBuilder) add(clause string, args ...interface{}) {
	for _, a := range args {
		b.args = append(b.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.clauses = append(b.clauses, clause)
}

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// likePattern wraps term for a substring ILIKE match, escaping wildcards.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// buildProductWhere translates q into a WHERE clause. Search and generic
// filters come first, then the dedicated set filters, then the price and
// square feet overlays; everything is conjunctive.
func buildProductWhere(q query.ProductQuery) (string, []interface{}) {
	b := &whereBuilder{}

	if q.SearchTerm != "" {
		p := likePattern(q.SearchTerm)
		b.add("(name ILIKE ? OR description ILIKE ?)", p, p)
	}
	for _, f := range q.Filters {
		op, ok := sqlOps[f.Op]
		if !ok {
			continue
		}
		b.add(fmt.Sprintf("%s %s ?", f.Field.Column, op), f.Value)
	}

	if len(q.Categories) > 0 {
		b.add("category = ANY(?)", pq.Array(q.Categories))
	}
	if len(q.Brands) > 0 {
		b.add("brand = ANY(?)", pq.Array(q.Brands))
	}
	if q.RatingsSet {
		ratings := q.Ratings
		if ratings == nil {
			ratings = []float64{}
		}
		b.add("average_rating = ANY(?)", pq.Array(ratings))
	}
	if q.InStock != nil {
		if *q.InStock {
			b.add("stock > 0")
		} else {
			b.add("stock = 0")
		}
	}
	if q.Location != "" {
		p := likePattern(q.Location)
		b.add("(address ILIKE ? OR city ILIKE ? OR state ILIKE ? OR country ILIKE ?)", p, p, p, p)
	}

	b.add("price >= ?", q.PriceRange.Min)
	if q.PriceRange.Bounded() {
		b.add("price <= ?", q.PriceRange.Max)
	}
	b.add("square_feet >= ?", q.SquareFeetRange.Min)
	if q.SquareFeetRange.Bounded() {
		b.add("square_feet <= ?", q.SquareFeetRange.Max)
	}

	return b.sql(), b.args
}

func buildProductOrder(keys []query.SortKey) string {
	parts := make([]string, 0, len(keys)+1)
	hasID := false
	for _, k := range keys {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, k.Field.Column+" "+dir)
		hasID = hasID || k.Field.Column == "id"
	}
	if !hasID {
		parts = append(parts, "id ASC")
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
