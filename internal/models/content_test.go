package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentType_Valid(t *testing.T) {
	assert.True(t, TypeArticle.Valid())
	assert.True(t, TypeVideo.Valid())
	assert.False(t, ContentType("podcast").Valid())
	assert.False(t, ContentType("").Valid())
}

func TestContent_MarshalJSON(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("article flattens its body", func(t *testing.T) {
		c := Content{
			ID:         1,
			Type:       TypeArticle,
			Title:      "Knee stretching basics",
			Category:   "knee",
			Thumbnail:  "/thumbs/knee.jpg",
			Short:      "Gentle mobility work",
			CreatedAt:  createdAt,
			Difficulty: "easy",
			Article:    &ArticleBody{Content: "Full body text"},
		}

		data, err := json.Marshal(c)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "article", got["type"])
		assert.Equal(t, "Full body text", got["content"])
		assert.NotContains(t, got, "videoUrl")
		assert.NotContains(t, got, "description")
	})

	t.Run("video flattens its body", func(t *testing.T) {
		c := Content{
			ID:        2,
			Type:      TypeVideo,
			Title:     "Ankle drills",
			CreatedAt: createdAt,
			Video: &VideoBody{
				VideoURL:    "https://example.com/v",
				Description: "Follow along",
			},
		}

		data, err := json.Marshal(c)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "video", got["type"])
		assert.Equal(t, "https://example.com/v", got["videoUrl"])
		assert.Equal(t, "Follow along", got["description"])
		assert.NotContains(t, got, "content")
	})

	t.Run("video with empty fields keeps the keys", func(t *testing.T) {
		c := Content{ID: 3, Type: TypeVideo, CreatedAt: createdAt, Video: &VideoBody{}}

		data, err := json.Marshal(c)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Contains(t, got, "videoUrl")
		assert.Contains(t, got, "description")
	})
}

func TestContent_UnmarshalJSON(t *testing.T) {
	t.Run("article", func(t *testing.T) {
		var c Content
		err := json.Unmarshal([]byte(`{
			"id": 1,
			"type": "article",
			"title": "Knee stretching basics",
			"category": "knee",
			"createdAt": "2025-01-01T12:00:00Z",
			"content": "Full body text"
		}`), &c)
		require.NoError(t, err)

		assert.Equal(t, TypeArticle, c.Type)
		require.NotNil(t, c.Article)
		assert.Equal(t, "Full body text", c.Article.Content)
		assert.Nil(t, c.Video)
	})

	t.Run("video", func(t *testing.T) {
		var c Content
		err := json.Unmarshal([]byte(`{
			"id": 2,
			"type": "video",
			"title": "Ankle drills",
			"createdAt": "2025-01-05T00:00:00Z",
			"videoUrl": "https://example.com/v",
			"description": "Follow along"
		}`), &c)
		require.NoError(t, err)

		assert.Equal(t, TypeVideo, c.Type)
		require.NotNil(t, c.Video)
		assert.Equal(t, "https://example.com/v", c.Video.VideoURL)
		assert.Nil(t, c.Article)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		var c Content
		err := json.Unmarshal([]byte(`{"id": 3, "type": "podcast"}`), &c)
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("article without content gets an empty body", func(t *testing.T) {
		var c Content
		err := json.Unmarshal([]byte(`{"id": 4, "type": "article", "title": "Bare"}`), &c)
		require.NoError(t, err)
		require.NotNil(t, c.Article)
		assert.Empty(t, c.Article.Content)
	})
}

func TestContent_Summary(t *testing.T) {
	c := Content{
		ID:         1,
		Type:       TypeArticle,
		Title:      "Knee stretching basics",
		Category:   "knee",
		Thumbnail:  "/thumbs/knee.jpg",
		Short:      "Gentle mobility work",
		CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Difficulty: "easy",
		Article:    &ArticleBody{Content: "Full body text"},
	}

	s := c.Summary()
	assert.Equal(t, c.ID, s.ID)
	assert.Equal(t, c.Title, s.Title)

	// The projection must never leak body fields onto the wire.
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotContains(t, got, "content")
	assert.NotContains(t, got, "videoUrl")
	assert.NotContains(t, got, "description")
}

func TestUpdatePatch_Empty(t *testing.T) {
	title := "t"
	assert.True(t, UpdatePatch{}.Empty())
	assert.False(t, UpdatePatch{Title: &title}.Empty())
	assert.False(t, UpdatePatch{Content: &title}.Empty())
}
