// Command seed loads fixture records into the catalog database. Records are
// only ever created here; the HTTP API has no create endpoint.
//
// Usage:
//
//	seed -config config.yml               # load the 5 base fixtures
//	seed -config config.yml -reset        # wipe the table first
//	seed -config config.yml -dummy        # add 20 generated records
//	seed -config config.yml -file c.xlsx  # bulk import from a workbook
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rehabworks/catalog/internal/config"
	"github.com/rehabworks/catalog/internal/database"
	"github.com/rehabworks/catalog/internal/importer"
	"github.com/rehabworks/catalog/internal/logger"
	"github.com/rehabworks/catalog/internal/metadata"
	"github.com/rehabworks/catalog/internal/models"
	"github.com/rehabworks/catalog/internal/repository"
)

const dummyRecordCount = 20

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yml", "Path to configuration file")
	reset := flag.Bool("reset", false, "Delete all existing records first")
	dummy := flag.Bool("dummy", false, "Add generated dummy records")
	file := flag.String("file", "", "Import records from an .xlsx workbook")
	enrich := flag.Bool("enrich", false, "Fill missing video thumbnails/summaries from OpenGraph tags")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	repo := repository.NewContentRepository(db.DB(), log)
	ctx := context.Background()

	if *reset {
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		log.Info("Existing records deleted")
	}

	var records []models.Content
	switch {
	case *file != "":
		records, err = importWorkbook(ctx, *file, *enrich, log)
		if err != nil {
			return err
		}
	case *dummy:
		records = dummyRecords()
	default:
		records = fixtureRecords()
	}

	for i := range records {
		if err := repo.Insert(ctx, &records[i]); err != nil {
			return fmt.Errorf("insert %q: %w", records[i].Title, err)
		}
	}

	total, err := repo.Count(ctx, repository.ListFilter{})
	if err != nil {
		return err
	}

	log.Info("Seed done",
		logger.Int("inserted", len(records)),
		logger.Int("total_rows", total),
	)
	return nil
}

func importWorkbook(ctx context.Context, path string, enrich bool, log logger.Logger) ([]models.Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	records, importErrors, err := importer.ParseWorkbook(f)
	if err != nil {
		return nil, err
	}
	for _, importErr := range importErrors {
		log.Warn("Skipping invalid row",
			logger.Int("row", importErr.Row),
			logger.String("error", importErr.Error),
		)
	}

	if enrich {
		enrichVideos(ctx, records, log)
	}
	return records, nil
}

// enrichVideos fills missing thumbnail/short fields on video records from
// the video page's OpenGraph tags. Extraction failures are logged and the
// record is kept as is.
func enrichVideos(ctx context.Context, records []models.Content, log logger.Logger) {
	extractor := metadata.NewExtractor(log)

	for i := range records {
		record := &records[i]
		if record.Type != models.TypeVideo || record.Video == nil {
			continue
		}
		if record.Thumbnail != "" && record.Short != "" {
			continue
		}

		meta, err := extractor.Extract(ctx, record.Video.VideoURL)
		if err != nil {
			log.Warn("Metadata extraction failed",
				logger.String("url", record.Video.VideoURL),
				logger.Error(err),
			)
			continue
		}
		if record.Thumbnail == "" {
			record.Thumbnail = meta.Thumbnail
		}
		if record.Short == "" {
			record.Short = meta.Description
		}
	}
}

func date(day string) time.Time {
	t, _ := time.Parse("2006-01-02", day)
	return t
}

// fixtureRecords are the five base fixtures: three articles and two videos
// dated 2025-01-01 through 2025-01-20.
func fixtureRecords() []models.Content {
	return []models.Content{
		{
			Type:       models.TypeArticle,
			Title:      "Knee stretching basics",
			Category:   "knee",
			Thumbnail:  "/images/knee-1.jpg",
			Short:      "Gentle stretches for stiff knees, suited to desk workers and beginners.",
			CreatedAt:  date("2025-01-01"),
			Difficulty: "easy",
			Article: &models.ArticleBody{
				Content: "An introductory article on knee stretching: concepts, steps, and precautions.",
			},
		},
		{
			Type:       models.TypeVideo,
			Title:      "5-minute neck and shoulder release",
			Category:   "shoulder",
			Thumbnail:  "/images/shoulder-1.jpg",
			Short:      "Quick shoulder and neck relaxation moves for office workers.",
			CreatedAt:  date("2025-01-05"),
			Difficulty: "easy",
			Video: &models.VideoBody{
				VideoURL:    "https://example.com/shoulder-video-1",
				Description: "A short follow-along video for releasing neck and shoulder tension.",
			},
		},
		{
			Type:       models.TypeArticle,
			Title:      "Activating the lower back core",
			Category:   "lower-back",
			Thumbnail:  "/images/lowback-1.jpg",
			Short:      "Simple movements that engage the core and reduce lower back load.",
			CreatedAt:  date("2025-01-10"),
			Difficulty: "medium",
			Article: &models.ArticleBody{
				Content: "An article introducing core activation for the lower back.",
			},
		},
		{
			Type:       models.TypeVideo,
			Title:      "Ankle mobility drills",
			Category:   "ankle",
			Thumbnail:  "/images/ankle-1.jpg",
			Short:      "Improve ankle stiffness and stability for walking and sport.",
			CreatedAt:  date("2025-01-15"),
			Difficulty: "easy",
			Video: &models.VideoBody{
				VideoURL:    "https://example.com/ankle-video-1",
				Description: "A guided ankle mobility training session.",
			},
		},
		{
			Type:       models.TypeArticle,
			Title:      "Full-body warm-up stretches",
			Category:   "full-body",
			Thumbnail:  "/images/fullbody-1.jpg",
			Short:      "A 10-minute full-body warm-up routine before exercise.",
			CreatedAt:  date("2025-01-20"),
			Difficulty: "easy",
			Article: &models.ArticleBody{
				Content: "A sample article covering a full-body warm-up routine.",
			},
		},
	}
}

// dummyRecords generates 20 records dated through February 2025, every third
// one a video, rotating categories and difficulties.
func dummyRecords() []models.Content {
	categories := []string{"knee", "shoulder", "lower-back", "ankle", "full-body"}
	difficulties := []string{"easy", "medium", "hard"}

	records := make([]models.Content, 0, dummyRecordCount)
	for i := 1; i <= dummyRecordCount; i++ {
		category := categories[i%len(categories)]
		difficulty := difficulties[i%len(difficulties)]
		createdAt := date(fmt.Sprintf("2025-02-%02d", i))

		if i%3 == 0 {
			records = append(records, models.Content{
				Type:       models.TypeVideo,
				Title:      fmt.Sprintf("Demo video %d: %s routine", i, category),
				Category:   category,
				Thumbnail:  fmt.Sprintf("/images/dummy-%d.jpg", i),
				Short:      fmt.Sprintf("A generated %s practice video.", category),
				CreatedAt:  createdAt,
				Difficulty: difficulty,
				Video: &models.VideoBody{
					VideoURL:    fmt.Sprintf("https://example.com/dummy-video-%d", i),
					Description: fmt.Sprintf("Generated description for %s video %d.", category, i),
				},
			})
			continue
		}

		records = append(records, models.Content{
			Type:       models.TypeArticle,
			Title:      fmt.Sprintf("Demo article %d: %s exercises", i, category),
			Category:   category,
			Thumbnail:  fmt.Sprintf("/images/dummy-%d.jpg", i),
			Short:      fmt.Sprintf("A generated %s exercise article.", category),
			CreatedAt:  createdAt,
			Difficulty: difficulty,
			Article: &models.ArticleBody{
				Content: fmt.Sprintf("Generated body text for %s article %d.", category, i),
			},
		})
	}
	return records
}
