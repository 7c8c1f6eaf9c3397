// Command load_ingredients fills the ingredient catalogue from
// <path>/ingredients.csv, one "name,measurement_unit" row per line.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/log"
	"github.com/foodgram/backend/internal/service"
)

const csvName = "ingredients.csv"

// importStats counts the outcome of every row
type importStats struct {
	Created int
	Skipped int
	Failed  int
}

func main() {
	dir := flag.String("path", "data", "Directory containing "+csvName)
	flag.Parse()

	ctx := context.Background()
	if err := run(ctx, *dir); err != nil {
		log.Error(ctx, "import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dir string) error {
	csvPath := filepath.Join(dir, csvName)
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := log.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	stats, err := importIngredients(ctx, service.NewIngredientService(db), f)
	if err != nil {
		return err
	}
	log.Info(ctx, "ingredients loaded",
		"file", csvPath,
		"created", stats.Created,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return nil
}

// importIngredients get-or-creates every row. Bad rows are logged and
// counted; only an unreadable file aborts the import.
func importIngredients(ctx context.Context, ingredients *service.IngredientService, r io.Reader) (importStats, error) {
	var stats importStats
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn(ctx, "skipping malformed row", "line", line, "error", err)
				stats.Failed++
				continue
			}
			return stats, fmt.Errorf("read csv: %w", err)
		}

		if len(record) < 2 {
			log.Warn(ctx, "row needs name and unit", "line", line, "row", strings.Join(record, ","))
			stats.Failed++
			continue
		}

		_, created, err := ingredients.GetOrCreate(ctx, record[0], record[1])
		switch {
		case err != nil:
			log.Warn(ctx, "failed to load ingredient", "line", line, "name", record[0], "error", err)
			stats.Failed++
		case created:
			stats.Created++
		default:
			stats.Skipped++
		}
	}
}
