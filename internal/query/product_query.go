// Package query turns raw listing query parameters into a typed ProductQuery.
//
// Parsing never fails: malformed numbers fall back to permissive bounds and
// unrecognised keys are dropped, so the store only ever sees allow-listed
// fields.
package query

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1) * limit within int32 range.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Op is a comparison operator of a generic filter.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindBool
	KindUUID
)

// Field describes one filterable, sortable or projectable product attribute.
type Field struct {
	Name       string // JSON name used in query strings
	Column     string
	Kind       FieldKind
	Filterable bool
	Sortable   bool
}

// Fields is the allow-list of product attributes the generic layer knows.
var Fields = map[string]Field{
	"id":                {Name: "id", Column: "id", Kind: KindUUID},
	"name":              {Name: "name", Column: "name", Sortable: true},
	"slug":              {Name: "slug", Column: "slug", Filterable: true},
	"description":       {Name: "description", Column: "description"},
	"price":             {Name: "price", Column: "price", Sortable: true},
	"securityDeposit":   {Name: "securityDeposit", Column: "security_deposit", Sortable: true},
	"applicationFee":    {Name: "applicationFee", Column: "application_fee", Sortable: true},
	"beds":              {Name: "beds", Column: "beds", Kind: KindInt, Filterable: true, Sortable: true},
	"baths":             {Name: "baths", Column: "baths", Kind: KindInt, Filterable: true, Sortable: true},
	"squareFeet":        {Name: "squareFeet", Column: "square_feet", Kind: KindInt, Sortable: true},
	"imageUrls":         {Name: "imageUrls", Column: "image_urls"},
	"amenities":         {Name: "amenities", Column: "amenities"},
	"highlights":        {Name: "highlights", Column: "highlights"},
	"propertyType":      {Name: "propertyType", Column: "property_type", Filterable: true},
	"category":          {Name: "category", Column: "category"},
	"brand":             {Name: "brand", Column: "brand"},
	"stock":             {Name: "stock", Column: "stock", Kind: KindInt, Sortable: true},
	"isPetsAllowed":     {Name: "isPetsAllowed", Column: "is_pets_allowed", Kind: KindBool, Filterable: true},
	"isParkingIncluded": {Name: "isParkingIncluded", Column: "is_parking_included", Kind: KindBool, Filterable: true},
	"isActive":          {Name: "isActive", Column: "is_active", Kind: KindBool, Filterable: true},
	"landlord":          {Name: "landlord", Column: "landlord_id", Kind: KindUUID, Filterable: true},
	"averageRating":     {Name: "averageRating", Column: "average_rating", Sortable: true},
	"ratingCount":       {Name: "ratingCount", Column: "rating_count", Kind: KindInt, Sortable: true},
	"numberOfReviews":   {Name: "numberOfReviews", Column: "number_of_reviews", Kind: KindInt, Sortable: true},
	"city":              {Name: "city", Column: "city", Filterable: true},
	"state":             {Name: "state", Column: "state", Filterable: true},
	"country":           {Name: "country", Column: "country", Filterable: true},
	"location":          {Name: "location", Column: "address"},
	"keyFeatures":       {Name: "keyFeatures", Column: "key_features"},
	"createdAt":         {Name: "createdAt", Column: "created_at", Sortable: true},
	"updatedAt":         {Name: "updatedAt", Column: "updated_at", Sortable: true},
}

// Range is an inclusive numeric interval; Max may be +Inf.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Bounded() bool { return !math.IsInf(r.Max, 1) }

// Filter is one generic predicate: Field Op Value.
type Filter struct {
	Field Field
	Op    Op
	Value any
}

type SortKey struct {
	Field Field
	Desc  bool
}

// ProductQuery is the typed form of a listing request.
type ProductQuery struct {
	SearchTerm string
	Filters    []Filter

	Categories []string
	Brands     []string
	Ratings    []float64
	// RatingsSet is true when ratings were supplied, even if none parsed;
	// an empty Ratings then matches nothing.
	RatingsSet bool
	InStock    *bool
	Location   string

	PriceRange      Range
	SquareFeetRange Range

	Sort   []SortKey
	Page   int
	Limit  int
	Fields []string
}

// Offset is the number of rows skipped before the current page.
func (q ProductQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// With returns a copy of q with an extra equality filter appended.
func (q ProductQuery) With(field string, value any) ProductQuery {
	f, ok := Fields[field]
	if !ok {
		return q
	}
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: f, Op: OpEq, Value: value})
	return q
}

// reserved keys are consumed by dedicated handling and never reach the
// generic filter layer.
var reserved = map[string]bool{
	"searchTerm": true, "sort": true, "page": true, "limit": true, "fields": true,
	"minPrice": true, "maxPrice": true, "minSquareFeet": true, "maxSquareFeet": true,
	"categories": true, "brands": true, "ratings": true, "inStock": true, "location": true,
}

var opKey = regexp.MustCompile(`^([A-Za-z]+)\[(gt|gte|lt|lte)\]$`)

// ParseProductQuery builds a ProductQuery from raw URL parameters.
func ParseProductQuery(values url.Values) ProductQuery {
	q := ProductQuery{
		SearchTerm: strings.TrimSpace(values.Get("searchTerm")),
		Categories: splitList(values["categories"]),
		Brands:     splitList(values["brands"]),
		Location:   strings.TrimSpace(values.Get("location")),
		PriceRange: Range{
			Min: numberOr(values.Get("minPrice"), 0),
			Max: numberOr(values.Get("maxPrice"), math.Inf(1)),
		},
		SquareFeetRange: Range{
			Min: numberOr(values.Get("minSquareFeet"), 0),
			Max: numberOr(values.Get("maxSquareFeet"), math.Inf(1)),
		},
		Page:   positiveIntOr(values.Get("page"), DefaultPage),
		Limit:  positiveIntOr(values.Get("limit"), DefaultLimit),
		Sort:   parseSort(values.Get("sort")),
		Fields: parseFields(values.Get("fields")),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	q.Ratings, q.RatingsSet = parseRatings(values["ratings"])
	if _, ok := values["inStock"]; ok {
		in := values.Get("inStock") == "true"
		q.InStock = &in
	}
	q.Filters = parseFilters(values)
	return q
}

// numberOr mirrors `Number(raw) || def`: empty, malformed, NaN and zero
// inputs all produce def.
func numberOr(raw string, def float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v == 0 {
		return def
	}
	return v
}

func positiveIntOr(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 {
		return def
	}
	return v
}

// splitList accepts repeated keys and comma separated values alike.
func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseRatings returns the numeric ratings and whether any were supplied.
func parseRatings(raw []string) ([]float64, bool) {
	tokens := splitList(raw)
	var out []float64
	for _, s := range tokens {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out, len(tokens) > 0
}

func parseSort(raw string) []SortKey {
	var keys []SortKey
	for _, part := range splitList([]string{raw}) {
		desc := strings.HasPrefix(part, "-")
		f, ok := Fields[strings.TrimPrefix(part, "-")]
		if !ok || !f.Sortable {
			continue
		}
		keys = append(keys, SortKey{Field: f, Desc: desc})
	}
	if len(keys) == 0 {
		return []SortKey{{Field: Fields["createdAt"], Desc: true}}
	}
	return keys
}

func parseFields(raw string) []string {
	var fields []string
	seen := map[string]bool{}
	for _, part := range splitList([]string{raw}) {
		if _, ok := Fields[part]; (!ok && part != "offerPrice") || seen[part] {
			continue
		}
		seen[part] = true
		fields = append(fields, part)
	}
	if len(fields) > 0 && !seen["id"] {
		fields = append([]string{"id"}, fields...)
	}
	return fields
}

func parseFilters(values url.Values) []Filter {
	var filters []Filter
	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}
		name, op := key, OpEq
		if m := opKey.FindStringSubmatch(key); m != nil {
			name, op = m[1], Op(m[2])
		}
		f, ok := Fields[name]
		if !ok || !f.Filterable {
			continue
		}
		if op != OpEq && f.Kind != KindInt {
			continue
		}
		v, ok := coerce(f, vals[0])
		if !ok {
			continue
		}
		filters = append(filters, Filter{Field: f, Op: op, Value: v})
	}
	sortFilters(filters)
	return filters
}

// coerce converts a raw value to the field's kind; values that do not parse
// drop the filter.
func coerce(f Field, raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	switch f.Kind {
	case KindInt:
		v, err := strconv.Atoi(raw)
		return v, err == nil
	case KindBool:
		v, err := strconv.ParseBool(raw)
		return v, err == nil
	case KindUUID:
		v, err := uuid.Parse(raw)
		return v, err == nil
	default:
		return raw, raw != ""
	}
}

// sortFilters orders filters by field and operator so generated SQL is
// stable regardless of map iteration order.
func sortFilters(filters []Filter) {
	sort.Slice(filters, func(i, j int) bool {
		if filters[i].Field.Name != filters[j].Field.Name {
			return filters[i].Field.Name < filters[j].Field.Name
		}
		return filters[i].Op < filters[j].Op
	})
}
