package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/weekplate/backend/config"
	"github.com/pageza/weekplate/backend/internal/database"
	"github.com/pageza/weekplate/backend/internal/logger"
	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/recipes"
	"github.com/pageza/weekplate/backend/internal/service"
)

//go:embed recipes.json
var defaultRecipes []byte

const starterCookbook = "Grundrezepte"

func main() {
	file := flag.String("file", "", "JSON file with recipes to import (defaults to the bundled set)")
	cookbook := flag.String("cookbook", starterCookbook, "Cookbook the seeded recipes are filed under; empty for none")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logr := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
	defer func() { _ = logr.Sync() }()

	data := defaultRecipes
	if *file != "" {
		if data, err = os.ReadFile(*file); err != nil {
			logr.Fatal("Failed to read recipe file", zap.String("file", *file), zap.Error(err))
		}
	}

	var seed []model.Recipe
	if err := json.Unmarshal(data, &seed); err != nil {
		logr.Fatal("Failed to parse recipe file", zap.Error(err))
	}

	db, err := database.Open(cfg, logr)
	if err != nil {
		logr.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db, logr); err != nil {
		logr.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	svc := service.NewRecipeService(db, logr)

	settings := service.NewSettingsService(db, logr)
	current, err := settings.Get(ctx)
	if err != nil {
		logr.Fatal("Failed to load settings", zap.Error(err))
	}
	if current.ID == uuid.Nil {
		if _, err := settings.Update(ctx, current); err != nil {
			logr.Fatal("Failed to store default settings", zap.Error(err))
		}
		logr.Info("Stored default settings")
	}

	bookID, err := ensureCookbook(ctx, service.NewCookbookService(db, logr), *cookbook)
	if err != nil {
		logr.Fatal("Failed to prepare cookbook", zap.Error(err))
	}

	existing, err := svc.List(ctx, recipes.Filters{})
	if err != nil {
		logr.Fatal("Failed to list recipes", zap.Error(err))
	}
	titles := make(map[string]bool, len(existing))
	for _, r := range existing {
		titles[r.Title] = true
	}

	created, skipped := 0, 0
	for i := range seed {
		r := seed[i]
		if titles[r.Title] {
			skipped++
			continue
		}
		if r.CookbookID == nil {
			r.CookbookID = bookID
		}
		if _, err := svc.Create(ctx, &r); err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				logr.Warn("Skipping invalid recipe", zap.String("title", r.Title), zap.Error(err))
				skipped++
				continue
			}
			logr.Fatal("Failed to create recipe", zap.String("title", r.Title), zap.Error(err))
		}
		created++
	}

	logr.Info("Seeding complete", zap.Int("created", created), zap.Int("skipped", skipped))
}

// ensureCookbook returns the id of the cookbook called name, creating it when missing
func ensureCookbook(ctx context.Context, books *service.CookbookService, name string) (*uuid.UUID, error) {
	if name == "" {
		return nil, nil
	}
	all, err := books.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range all {
		if b.Name == name {
			return &b.ID, nil
		}
	}
	created, err := books.Create(ctx, &model.Cookbook{Name: name})
	if err != nil {
		return nil, err
	}
	return &created.ID, nil
}
