package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehabworks/catalog/internal/models"
)

func TestClient_ListOffset(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/contents", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"mode":  "offset",
			"page":  2,
			"limit": 5,
			"total": 12,
			"rows":  []models.Summary{{ID: 7, Type: models.TypeArticle, Title: "Knee stretching basics"}},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	page, err := c.ListOffset(context.Background(), ListOptions{
		Category: "knee",
		Type:     "article",
		Query:    "stretch",
		Sort:     "createdAt",
		Order:    "desc",
		Limit:    5,
	}, 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"mode":     "offset",
		"page":     "2",
		"category": "knee",
		"type":     "article",
		"q":        "stretch",
		"sort":     "createdAt",
		"order":    "desc",
		"limit":    "5",
	}, gotQuery)

	assert.Equal(t, "offset", page.Mode)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, int64(7), page.Rows[0].ID)
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/contents/3", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":        3,
			"type":      "video",
			"title":     "Ankle drills",
			"category":  "ankle",
			"createdAt": "2025-01-05T00:00:00Z",
			"videoUrl":  "https://example.com/v",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	content, err := c.Get(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, models.TypeVideo, content.Type)
	require.NotNil(t, content.Video)
	assert.Equal(t, "https://example.com/v", content.Video.VideoURL)
	assert.Nil(t, content.Article)
}

func TestClient_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/contents/1", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var patch models.UpdatePatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		require.NotNil(t, patch.Title)
		assert.Equal(t, "New title", *patch.Title)
		assert.Nil(t, patch.Content)

		json.NewEncoder(w).Encode(map[string]any{
			"id":        1,
			"type":      "article",
			"title":     *patch.Title,
			"createdAt": "2025-01-01T00:00:00Z",
			"content":   "body",
		})
	}))
	defer server.Close()

	title := "New title"
	c := New(server.URL)
	content, err := c.Update(context.Background(), 1, models.UpdatePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", content.Title)
}

func TestClient_Categories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/categories", r.URL.Path)
		json.NewEncoder(w).Encode([]string{"ankle", "knee"})
	}))
	defer server.Close()

	c := New(server.URL)
	categories, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ankle", "knee"}, categories)
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Content not found"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Get(context.Background(), 99)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Content not found", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "404")
}

func TestClient_APIErrorWithoutJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Categories(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := New(server.URL)
	_, err := c.Categories(ctx)
	require.Error(t, err)
}
