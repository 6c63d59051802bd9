// Package importer parses catalog records from Excel workbooks for bulk
// seeding.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rehabworks/catalog/internal/models"
)

// Column indices for the contents spreadsheet (0-based).
const (
	colType        = 0 // Column A
	colTitle       = 1 // Column B
	colCategory    = 2 // Column C
	colThumbnail   = 3 // Column D
	colShort       = 4 // Column E
	colCreatedAt   = 5 // Column F
	colDifficulty  = 6 // Column G
	colContent     = 7 // Column H
	colVideoURL    = 8 // Column I
	colDescription = 9 // Column J

	headerRowIndex = 1 // Excel rows are 1-based, header is row 1
)

// dateLayouts are accepted createdAt cell formats, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ImportError reports a validation failure for a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ParseWorkbook reads the first sheet of an .xlsx stream and returns the
// valid content records plus per-row errors for the invalid ones. The header
// row is skipped; fully empty rows are ignored.
func ParseWorkbook(r io.Reader) ([]models.Content, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}

	contents := make([]models.Content, 0, len(rows))
	importErrors := make([]ImportError, 0)

	for i, row := range rows {
		rowNum := i + 1
		if rowNum == headerRowIndex || isEmptyRow(row) {
			continue
		}

		content, parseErr := parseRow(row)
		if parseErr != "" {
			importErrors = append(importErrors, ImportError{Row: rowNum, Error: parseErr})
			continue
		}
		contents = append(contents, content)
	}

	return contents, importErrors, nil
}

func parseRow(row []string) (models.Content, string) {
	recordType := models.ContentType(strings.TrimSpace(cell(row, colType)))
	if !recordType.Valid() {
		return models.Content{}, "type must be article or video"
	}

	title := strings.TrimSpace(cell(row, colTitle))
	if title == "" {
		return models.Content{}, "title is required"
	}

	createdAt, ok := parseDate(cell(row, colCreatedAt))
	if !ok {
		return models.Content{}, "createdAt must be an RFC 3339 timestamp or YYYY-MM-DD date"
	}

	content := models.Content{
		Type:       recordType,
		Title:      title,
		Category:   strings.TrimSpace(cell(row, colCategory)),
		Thumbnail:  strings.TrimSpace(cell(row, colThumbnail)),
		Short:      strings.TrimSpace(cell(row, colShort)),
		CreatedAt:  createdAt,
		Difficulty: strings.TrimSpace(cell(row, colDifficulty)),
	}

	switch recordType {
	case models.TypeArticle:
		content.Article = &models.ArticleBody{
			Content: strings.TrimSpace(cell(row, colContent)),
		}
	case models.TypeVideo:
		videoURL := strings.TrimSpace(cell(row, colVideoURL))
		if !strings.HasPrefix(videoURL, "http://") && !strings.HasPrefix(videoURL, "https://") {
			return models.Content{}, "videoUrl must start with http:// or https://"
		}
		content.Video = &models.VideoBody{
			VideoURL:    videoURL,
			Description: strings.TrimSpace(cell(row, colDescription)),
		}
	}

	return content, ""
}

// cell reads a column that may be absent; excelize trims trailing empty
// cells from each row.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
