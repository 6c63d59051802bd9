package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehabworks/catalog/internal/models"
	"github.com/rehabworks/catalog/internal/pagination"
	"github.com/rehabworks/catalog/internal/testhelpers"
)

// setupTestDB connects to a local PostgreSQL instance for integration tests.
// Set CATALOG_TEST_DB to override the connection string. Tests skip when no
// database is reachable or when running in short mode.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	connStr := os.Getenv("CATALOG_TEST_DB")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=catalog_test sslmode=disable"
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Skipf("Skipping test: could not open test database: %v", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("Skipping test: could not ping test database: %v", err)
	}

	log := testhelpers.NewTestLogger()
	if err := testhelpers.RunMigrations(ctx, db, log); err != nil {
		db.Close()
		t.Skipf("Skipping test: could not run migrations: %v", err)
	}

	cleanup := func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM contents")
		db.Close()
	}
	return db, cleanup
}

func seedIntegrationFixtures(t *testing.T, repo *ContentRepository) []models.Content {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.DeleteAll(ctx))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []models.Content{
		{
			Type:       models.TypeArticle,
			Title:      "Knee stretching basics",
			Category:   "knee",
			CreatedAt:  base,
			Difficulty: "easy",
			Article:    &models.ArticleBody{Content: "Full body text"},
		},
		{
			Type:       models.TypeVideo,
			Title:      "Ankle drills",
			Category:   "ankle",
			CreatedAt:  base.Add(24 * time.Hour),
			Difficulty: "medium",
			Video: &models.VideoBody{
				VideoURL:    "https://example.com/ankle",
				Description: "Follow along",
			},
		},
		{
			Type:       models.TypeArticle,
			Title:      "Shoulder mobility routine",
			Category:   "shoulder",
			CreatedAt:  base.Add(48 * time.Hour),
			Difficulty: "easy",
			Article:    &models.ArticleBody{Content: "Routine text"},
		},
	}

	for i := range fixtures {
		require.NoError(t, repo.Insert(ctx, &fixtures[i]))
		require.NotZero(t, fixtures[i].ID)
	}
	return fixtures
}

func TestContentRepository_Integration_CursorWalk(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewContentRepository(db, testhelpers.NewTestLogger())
	fixtures := seedIntegrationFixtures(t, repo)
	ctx := context.Background()

	ord := pagination.ParseOrder("createdAt", "desc")

	// Page size 1 with over-fetch: three records walk in exactly three pages.
	fetched, err := repo.ListCursor(ctx, ListFilter{}, ord, 1, nil)
	require.NoError(t, err)
	page, hasNext, next := pagination.Window(fetched, 1)
	require.Len(t, page, 1)
	assert.Equal(t, fixtures[2].Title, page[0].Title)
	require.True(t, hasNext)
	require.NotNil(t, next)

	fetched, err = repo.ListCursor(ctx, ListFilter{}, ord, 1, next)
	require.NoError(t, err)
	page, hasNext, next = pagination.Window(fetched, 1)
	require.Len(t, page, 1)
	assert.Equal(t, fixtures[1].Title, page[0].Title)
	require.True(t, hasNext)

	fetched, err = repo.ListCursor(ctx, ListFilter{}, ord, 1, next)
	require.NoError(t, err)
	page, hasNext, next = pagination.Window(fetched, 1)
	require.Len(t, page, 1)
	assert.Equal(t, fixtures[0].Title, page[0].Title)
	assert.False(t, hasNext)
	assert.Nil(t, next)
}

func TestContentRepository_Integration_FiltersAndCount(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewContentRepository(db, testhelpers.NewTestLogger())
	seedIntegrationFixtures(t, repo)
	ctx := context.Background()

	count, err := repo.Count(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = repo.Count(ctx, ListFilter{Type: "article"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ord := pagination.ParseOrder("createdAt", "desc")
	rows, err := repo.ListOffset(ctx, ListFilter{Query: "mobility"}, ord, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Shoulder mobility routine", rows[0].Title)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ankle", "knee", "shoulder"}, categories)
}

func TestContentRepository_Integration_UpdateArticle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewContentRepository(db, testhelpers.NewTestLogger())
	fixtures := seedIntegrationFixtures(t, repo)
	ctx := context.Background()

	title := "Knee stretching, revised"
	body := "Revised body text"
	updated, err := repo.UpdateArticle(ctx, fixtures[0].ID, models.UpdatePatch{
		Title:   &title,
		Content: &body,
	})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	require.NotNil(t, updated.Article)
	assert.Equal(t, body, updated.Article.Content)

	// Untouched fields survive the patch.
	assert.Equal(t, "knee", updated.Category)
	assert.Equal(t, "easy", updated.Difficulty)

	_, err = repo.UpdateArticle(ctx, fixtures[1].ID, models.UpdatePatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotArticle)
}
