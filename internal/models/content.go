// Package models defines the catalog's content record types.
package models

import (
	"encoding/json"
	"errors"
	"time"
)

// ContentType discriminates the two record variants.
type ContentType string

const (
	TypeArticle ContentType = "article"
	TypeVideo   ContentType = "video"

	// TypeAll is the filter sentinel meaning "no type constraint".
	TypeAll = "all"

	// CategoryAll is the filter sentinel meaning "no category constraint".
	CategoryAll = "all"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	return t == TypeArticle || t == TypeVideo
}

// ErrUnknownType is returned when decoding a record whose type is neither
// article nor video.
var ErrUnknownType = errors.New("unknown content type")

// ArticleBody holds the fields present only on article records.
type ArticleBody struct {
	Content string `json:"content"`
}

// VideoBody holds the fields present only on video records. Videos have no
// update path; these fields are immutable.
type VideoBody struct {
	VideoURL    string `json:"videoUrl"`
	Description string `json:"description"`
}

// Content is a full catalog record. Exactly one of Article or Video is
// populated, gated by Type. The JSON form flattens the variant into the
// detail shape served by GET /api/contents/:id.
type Content struct {
	ID         int64
	Type       ContentType
	Title      string
	Category   string
	Thumbnail  string
	Short      string
	CreatedAt  time.Time
	Difficulty string

	Article *ArticleBody
	Video   *VideoBody
}

// Summary is the list projection of a record. It never carries body fields;
// list responses must not leak content, videoUrl, or description.
type Summary struct {
	ID         int64       `json:"id"`
	Type       ContentType `json:"type"`
	Title      string      `json:"title"`
	Category   string      `json:"category"`
	Thumbnail  string      `json:"thumbnail"`
	Short      string      `json:"short"`
	CreatedAt  time.Time   `json:"createdAt"`
	Difficulty string      `json:"difficulty"`
}

// Summary returns the list projection of the record.
func (c *Content) Summary() Summary {
	return Summary{
		ID:         c.ID,
		Type:       c.Type,
		Title:      c.Title,
		Category:   c.Category,
		Thumbnail:  c.Thumbnail,
		Short:      c.Short,
		CreatedAt:  c.CreatedAt,
		Difficulty: c.Difficulty,
	}
}

// contentJSON is the flat wire shape shared by MarshalJSON and UnmarshalJSON.
type contentJSON struct {
	ID          int64       `json:"id"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Thumbnail   string      `json:"thumbnail"`
	Short       string      `json:"short"`
	CreatedAt   time.Time   `json:"createdAt"`
	Difficulty  string      `json:"difficulty"`
	Content     *string     `json:"content,omitempty"`
	VideoURL    *string     `json:"videoUrl,omitempty"`
	Description *string     `json:"description,omitempty"`
}

// MarshalJSON flattens the variant body into the detail shape.
func (c Content) MarshalJSON() ([]byte, error) {
	out := contentJSON{
		ID:         c.ID,
		Type:       c.Type,
		Title:      c.Title,
		Category:   c.Category,
		Thumbnail:  c.Thumbnail,
		Short:      c.Short,
		CreatedAt:  c.CreatedAt,
		Difficulty: c.Difficulty,
	}
	switch c.Type {
	case TypeArticle:
		if c.Article != nil {
			out.Content = &c.Article.Content
		}
	case TypeVideo:
		if c.Video != nil {
			out.VideoURL = &c.Video.VideoURL
			out.Description = &c.Video.Description
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the variant from the flat detail shape.
func (c *Content) UnmarshalJSON(data []byte) error {
	var in contentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return ErrUnknownType
	}

	*c = Content{
		ID:         in.ID,
		Type:       in.Type,
		Title:      in.Title,
		Category:   in.Category,
		Thumbnail:  in.Thumbnail,
		Short:      in.Short,
		CreatedAt:  in.CreatedAt,
		Difficulty: in.Difficulty,
	}
	switch in.Type {
	case TypeArticle:
		body := ArticleBody{}
		if in.Content != nil {
			body.Content = *in.Content
		}
		c.Article = &body
	case TypeVideo:
		body := VideoBody{}
		if in.VideoURL != nil {
			body.VideoURL = *in.VideoURL
		}
		if in.Description != nil {
			body.Description = *in.Description
		}
		c.Video = &body
	}
	return nil
}

// UpdatePatch is the constrained update accepted by PUT /api/contents/:id.
// Only article records may be patched, and only these two fields. Nil means
// "leave unchanged".
type UpdatePatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Empty reports whether the patch changes nothing.
func (p UpdatePatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}
