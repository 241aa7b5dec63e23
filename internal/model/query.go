package model

import (
	"net/url"
	"strings"
)

// SortDirection orders a listing column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// ParseSort interprets a sort query value for field. "<field>:desc" sorts
// descending, any other non-empty value ascending, empty leaves the field unsorted.
func ParseSort(field, value string) SortDirection {
	switch value {
	case "":
		return SortNone
	case field + ":desc":
		return SortDesc
	default:
		return SortAsc
	}
}

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return ""
	}
}

// ListQuery holds the filter and sort state of a listing request.
type ListQuery struct {
	Search         string
	Manufacturer   string
	SortByName     string
	SortByPrice    string
	SortByQuantity string

	// Echoed back to the view, not used for filtering.
	PriceRange    string
	QuantityRange string
}

// SortField is one column of a multi-key sort.
type SortField struct {
	Column    string
	Direction SortDirection
}

// SortFields returns the active sort directives in name, price, quantity order.
func (q ListQuery) SortFields() []SortField {
	candidates := []SortField{
		{Column: "name", Direction: ParseSort("name", q.SortByName)},
		{Column: "price", Direction: ParseSort("price", q.SortByPrice)},
		{Column: "quantity", Direction: ParseSort("quantity", q.SortByQuantity)},
	}

	fields := make([]SortField, 0, len(candidates))
	for _, f := range candidates {
		if f.Direction != SortNone {
			fields = append(fields, f)
		}
	}
	return fields
}

// CacheKey returns a key that is equal for queries selecting the same rows in
// the same order. Range parameters do not take part. Values are query-escaped
// so user input cannot forge another query's key.
func (q ListQuery) CacheKey() string {
	v := url.Values{}
	v.Set("search", strings.ToLower(q.Search))
	v.Set("manufacturer", q.Manufacturer)
	for _, f := range q.SortFields() {
		v.Set("sort."+f.Column, f.Direction.String())
	}
	return v.Encode()
}
