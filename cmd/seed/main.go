// Package main loads reference data into the Foodgram database: the
// ingredient catalogue from CSV and a default set of tags.
//
// Usage:
//
//	go run ./cmd/seed --ingredients data/ingredients.csv
//	go run ./cmd/seed --data-path ~/foodgram --tags "Breakfast:breakfast,Dinner:dinner"
//
// The CSV has two columns per row, name and measurement unit, with no header.
// Reruns are safe: existing ingredients and tags are skipped.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/color"
	"github.com/foodgram/foodgram-server/internal/di/providers"
	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/service"
)

const defaultTags = "Vegan:vegan,Gluten free:gluten_free,Low calorie:low_calorie"

var (
	ingredientsPath = flag.String("ingredients", "", "Path to the ingredients CSV (skipped when empty)")
	tagSpec         = flag.String("tags", defaultTags, "Comma separated name:slug pairs to create")
)

// seeder is the system principal used for catalogue writes.
var seeder = access.Subject{UserID: "seed", Role: domain.RoleAdmin}

func main() {
	injector := do.New()
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideAuthorizer)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideIngredientService)
	do.Provide(injector, providers.ProvideTagService)

	if err := run(injector); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		_ = injector.Shutdown()
		os.Exit(1)
	}
	_ = injector.Shutdown()
}

func run(injector do.Injector) error {
	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if *ingredientsPath != "" {
		reqs, err := readIngredients(*ingredientsPath)
		if err != nil {
			return err
		}
		ingredients := do.MustInvoke[*service.IngredientService](injector)
		inserted, err := ingredients.ImportIngredients(ctx, reqs)
		if err != nil {
			return err
		}
		log.Info("Ingredient catalogue loaded", "rows", len(reqs), "inserted", inserted)
	}

	reqs, err := parseTags(*tagSpec)
	if err != nil {
		return err
	}
	tags := do.MustInvoke[*service.TagService](injector)
	for _, req := range reqs {
		tag, err := tags.CreateTag(ctx, seeder, req)
		switch {
		case errors.Is(err, domainerrors.Conflict("")):
			log.Info("Tag exists, skipping", "slug", req.Slug)
		case err != nil:
			return fmt.Errorf("create tag %q: %w", req.Name, err)
		default:
			log.Info("Tag created", "slug", tag.Slug, "color", tag.Color)
		}
	}
	return nil
}

// readIngredients parses name,unit rows. Blank lines are skipped.
func readIngredients(path string) ([]service.CreateIngredientRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ingredients: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	var reqs []service.CreateIngredientRequest
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return reqs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read ingredients: %w", err)
		}
		reqs = append(reqs, service.CreateIngredientRequest{Name: row[0], MeasurementUnit: row[1]})
	}
}

// parseTags reads "name:slug" pairs. Colors derive from the name so reruns
// against a fresh database produce the same palette.
func parseTags(spec string) ([]service.CreateTagRequest, error) {
	var reqs []service.CreateTagRequest
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, slug, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("tag %q: want name:slug", pair)
		}
		name = strings.TrimSpace(name)
		reqs = append(reqs, service.CreateTagRequest{
			Name:  name,
			Slug:  strings.TrimSpace(slug),
			Color: color.ForName(name),
		})
	}
	return reqs, nil
}
