// Package pagination implements the list windowing protocol shared by the
// API and its clients: offset and keyset-cursor addressing, limit clamping,
// and the sort/order whitelists.
package pagination

import (
	"strconv"
	"strings"
)

// Mode selects how a list request is addressed.
type Mode string

const (
	ModeOffset Mode = "offset"
	ModeCursor Mode = "cursor"
)

const (
	// DefaultLimit applies when limit is missing or unparseable.
	DefaultLimit = 10
	// MaxLimit caps the page size. The cap is a resource-protection
	// invariant and holds for any requested value.
	MaxLimit = 50

	DefaultPage = 1
)

// Sortable fields accepted from the query string, mapped to columns. Any
// other value falls back to createdAt so untrusted input can never order by
// an arbitrary column.
var sortColumns = map[string]string{
	"id":         "id",
	"createdAt":  "created_at",
	"title":      "title",
	"category":   "category",
	"difficulty": "difficulty",
}

const (
	defaultSortColumn = "created_at"
	defaultOrder      = "DESC"
)

// ParseMode returns cursor mode only for the exact value "cursor"; anything
// else is offset mode.
func ParseMode(raw string) Mode {
	if raw == string(ModeCursor) {
		return ModeCursor
	}
	return ModeOffset
}

// ParseLimit clamps the requested page size to [1, MaxLimit]. Missing,
// non-numeric, zero, and negative values all resolve to DefaultLimit.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// ParsePage parses the 1-based page number for offset mode. Missing,
// non-numeric, and sub-1 values resolve to page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultPage
	}
	return n
}

// Order holds a validated sort specification. Column is safe to interpolate
// into SQL; Direction is "ASC" or "DESC".
type Order struct {
	Column    string
	Direction string
}

// Descending reports whether the order is descending.
func (o Order) Descending() bool {
	return o.Direction == defaultOrder
}

// ParseOrder validates the sort field against the whitelist and the
// direction against {asc, desc}. Unknown fields fall back to created_at,
// unknown directions to desc.
func ParseOrder(sortField, order string) Order {
	column, ok := sortColumns[sortField]
	if !ok {
		column = defaultSortColumn
	}
	direction := strings.ToUpper(strings.TrimSpace(order))
	if direction != "ASC" && direction != "DESC" {
		direction = defaultOrder
	}
	return Order{Column: column, Direction: direction}
}

// Offset computes the skip count for offset mode.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
