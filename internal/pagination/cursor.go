package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rehabworks/catalog/internal/models"
)

// Cursor addresses "the page after this record". It is always keyed on
// (createdAt, id) regardless of the requested sort field; id is the
// tie-breaker that makes the keyset order total.
type Cursor struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrMalformedCursor marks cursor parameters that fail validation. Handlers
// map it to a 400; a bad cursor never silently degrades to "no cursor".
var ErrMalformedCursor = errors.New("malformed cursor")

// ParseCursor builds a cursor from the cursorId and cursorCreatedAt query
// parameters. Both absent means the first page (nil cursor). A partial pair
// or an unparseable value is an error.
func ParseCursor(idRaw, createdAtRaw string) (*Cursor, error) {
	if idRaw == "" && createdAtRaw == "" {
		return nil, nil
	}
	if idRaw == "" || createdAtRaw == "" {
		return nil, fmt.Errorf("%w: cursorId and cursorCreatedAt must be provided together", ErrMalformedCursor)
	}

	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: cursorId must be an integer", ErrMalformedCursor)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: cursorCreatedAt must be an RFC 3339 timestamp", ErrMalformedCursor)
	}

	return &Cursor{ID: id, CreatedAt: createdAt}, nil
}

// Window trims a row set that was over-fetched by one. If more than limit
// rows came back there is a further page: the extra row is dropped and the
// next cursor is taken from the last retained row, never the dropped one.
func Window(rows []models.Summary, limit int) (page []models.Summary, hasNext bool, next *Cursor) {
	if len(rows) <= limit {
		return rows, false, nil
	}

	page = rows[:limit]
	last := page[len(page)-1]
	return page, true, &Cursor{ID: last.ID, CreatedAt: last.CreatedAt}
}
