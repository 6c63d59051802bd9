// Package repository implements Postgres-backed access to content records,
// including the filter, sort, and keyset query construction used by the
// list endpoint.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rehabworks/catalog/internal/logger"
	"github.com/rehabworks/catalog/internal/models"
	"github.com/rehabworks/catalog/internal/pagination"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("content not found")
	// ErrNotArticle is returned when an update targets a video record.
	ErrNotArticle = errors.New("content is not an article")
)

type ContentRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewContentRepository(db *sql.DB, log logger.Logger) *ContentRepository {
	return &ContentRepository{
		db:     db,
		logger: log,
	}
}

// ListFilter holds the equality and substring filters for list queries.
// The sentinel "all" (or empty) disables the category and type constraints;
// an empty Query disables the title search.
type ListFilter struct {
	Category string
	Type     string
	Query    string
}

const summaryColumns = `id, type, title, category, thumbnail, short, created_at, difficulty`

// buildListWhere translates the filter into a WHERE suffix with positional
// args. Filters combine with AND.
func buildListWhere(filter ListFilter) (whereClause string, args []any) {
	var clauses []string
	args = make([]any, 0)
	pos := 1

	if filter.Category != "" && filter.Category != models.CategoryAll {
		clauses = append(clauses, fmt.Sprintf("category = $%d", pos))
		args = append(args, filter.Category)
		pos++
	}
	if filter.Type != "" && filter.Type != models.TypeAll {
		clauses = append(clauses, fmt.Sprintf("type = $%d", pos))
		args = append(args, filter.Type)
		pos++
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", pos))
		args = append(args, "%"+q+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

// buildListOrder renders the compound ordering: the whitelisted sort column
// followed by id in the same direction. The tie-breaker makes the order
// total, which cursor pagination requires.
func buildListOrder(ord pagination.Order) string {
	if ord.Column == "id" {
		return fmt.Sprintf(" ORDER BY id %s", ord.Direction)
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", ord.Column, ord.Direction, ord.Direction)
}

// buildKeysetClause renders the "strictly after the cursor" condition. The
// keyset is always (created_at, id), independent of the requested sort
// column; see the cursor docs for why that stays as is.
func buildKeysetClause(cur *pagination.Cursor, ord pagination.Order, pos int) (clause string, args []any) {
	op := ">"
	if ord.Descending() {
		op = "<"
	}
	clause = fmt.Sprintf(
		" AND (created_at %s $%d OR (created_at = $%d AND id %s $%d))",
		op, pos, pos, op, pos+1,
	)
	return clause, []any{cur.CreatedAt, cur.ID}
}

// Count returns the number of records matching the filter, ignoring any
// pagination window.
func (r *ContentRepository) Count(ctx context.Context, filter ListFilter) (int, error) {
	whereClause, args := buildListWhere(filter)
	query := `SELECT COUNT(*) FROM contents WHERE 1=1` + whereClause

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count contents: %w", err)
	}
	return count, nil
}

// ListOffset returns one page of summaries addressed by skip count.
func (r *ContentRepository) ListOffset(
	ctx context.Context,
	filter ListFilter,
	ord pagination.Order,
	limit, offset int,
) ([]models.Summary, error) {
	whereClause, args := buildListWhere(filter)
	limitPos := strconv.Itoa(len(args) + 1)
	offsetPos := strconv.Itoa(len(args) + 2)

	// whereClause uses positional args only; the order clause interpolates
	// whitelisted column names.
	query := `SELECT ` + summaryColumns + ` FROM contents WHERE 1=1` +
		whereClause + buildListOrder(ord) +
		` LIMIT $` + limitPos + ` OFFSET $` + offsetPos

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contents: %w", err)
	}
	defer rows.Close()

	return scanSummaryRows(rows)
}

// ListCursor returns up to limit+1 summaries strictly after the cursor in
// sort order. The caller detects a further page from the extra row; this
// avoids a second round-trip. A nil cursor means the first page.
func (r *ContentRepository) ListCursor(
	ctx context.Context,
	filter ListFilter,
	ord pagination.Order,
	limit int,
	cur *pagination.Cursor,
) ([]models.Summary, error) {
	whereClause, args := buildListWhere(filter)

	if cur != nil {
		keyset, keysetArgs := buildKeysetClause(cur, ord, len(args)+1)
		whereClause += keyset
		args = append(args, keysetArgs...)
	}

	limitPos := strconv.Itoa(len(args) + 1)
	query := `SELECT ` + summaryColumns + ` FROM contents WHERE 1=1` +
		whereClause + buildListOrder(ord) +
		` LIMIT $` + limitPos

	args = append(args, limit+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contents: %w", err)
	}
	defer rows.Close()

	return scanSummaryRows(rows)
}

func scanSummaryRows(rows *sql.Rows) ([]models.Summary, error) {
	summaries := make([]models.Summary, 0)
	for rows.Next() {
		var s models.Summary
		if err := rows.Scan(
			&s.ID,
			&s.Type,
			&s.Title,
			&s.Category,
			&s.Thumbnail,
			&s.Short,
			&s.CreatedAt,
			&s.Difficulty,
		); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contents: %w", err)
	}
	return summaries, nil
}

// GetByID fetches a full record, including the variant body fields.
func (r *ContentRepository) GetByID(ctx context.Context, id int64) (*models.Content, error) {
	query := `
		SELECT id, type, title, category, thumbnail, short, created_at, difficulty,
		       content, video_url, description
		FROM contents
		WHERE id = $1
	`

	var c models.Content
	var body, videoURL, description sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Type,
		&c.Title,
		&c.Category,
		&c.Thumbnail,
		&c.Short,
		&c.CreatedAt,
		&c.Difficulty,
		&body,
		&videoURL,
		&description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}

	switch c.Type {
	case models.TypeArticle:
		c.Article = &models.ArticleBody{Content: body.String}
	case models.TypeVideo:
		c.Video = &models.VideoBody{
			VideoURL:    videoURL.String,
			Description: description.String,
		}
	default:
		return nil, fmt.Errorf("content %d: %w", id, models.ErrUnknownType)
	}

	return &c, nil
}

// UpdateArticle applies the patch to an article record and returns the
// updated full record. The update is unconditional last-write-wins; there is
// no conflict detection.
func (r *ContentRepository) UpdateArticle(
	ctx context.Context,
	id int64,
	patch models.UpdatePatch,
) (*models.Content, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Type != models.TypeArticle {
		return nil, ErrNotArticle
	}
	if patch.Empty() {
		return existing, nil
	}

	sets := make([]string, 0, 2)
	args := []any{id}
	pos := 2

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", pos))
		args = append(args, *patch.Title)
		pos++
	}
	if patch.Content != nil {
		sets = append(sets, fmt.Sprintf("content = $%d", pos))
		args = append(args, *patch.Content)
	}

	query := `UPDATE contents SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Categories returns the distinct non-empty category labels, ordered by the
// store's collation.
func (r *ContentRepository) Categories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM contents
		WHERE category <> ''
		ORDER BY category
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// Insert creates a record. Only seed tooling calls this; the HTTP API has no
// create endpoint.
func (r *ContentRepository) Insert(ctx context.Context, c *models.Content) error {
	var body, videoURL, description sql.NullString
	switch c.Type {
	case models.TypeArticle:
		if c.Article != nil {
			body = sql.NullString{String: c.Article.Content, Valid: true}
		}
	case models.TypeVideo:
		if c.Video != nil {
			videoURL = sql.NullString{String: c.Video.VideoURL, Valid: true}
			description = sql.NullString{String: c.Video.Description, Valid: true}
		}
	default:
		return models.ErrUnknownType
	}

	query := `
		INSERT INTO contents (type, title, category, thumbnail, short, created_at, difficulty,
		                      content, video_url, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		c.Type,
		c.Title,
		c.Category,
		c.Thumbnail,
		c.Short,
		c.CreatedAt,
		c.Difficulty,
		body,
		videoURL,
		description,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

// DeleteAll truncates the table. Seed tooling uses it to reset fixtures.
func (r *ContentRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contents`); err != nil {
		return fmt.Errorf("delete contents: %w", err)
	}
	return nil
}
