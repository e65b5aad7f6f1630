package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/weekplate/backend/internal/metrics"
	"github.com/pageza/weekplate/backend/internal/model"
)

// DraftTTL is how long a parsed recipe waits for confirmation
const DraftTTL = 24 * time.Hour

const draftKeyPrefix = "recipe:draft:"

// RecipeDraft is a parsed recipe held in Redis until the user confirms it
type RecipeDraft struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
	Recipe    ParsedRecipe `json:"recipe"`
}

// ConfirmDraftRequest carries what the photo cannot tell: tags and cookbook
// placement, plus optional corrections to the parsed title and servings
type ConfirmDraftRequest struct {
	Title        *string             `json:"title"`
	CategoryTags []model.CategoryTag `json:"category_tags"`
	CookbookID   *uuid.UUID          `json:"cookbook_id"`
	PageNumber   *int                `json:"page_number"`
	PhotoURL     *string             `json:"photo_url"`
	BaseServings *int                `json:"base_servings"`
}

type recipeParser interface {
	Available() bool
	Parse(ctx context.Context, image []byte, mimeType string) (*ParsedRecipe, error)
}

// ImportService turns cookbook photos into recipes through a confirmable draft
type ImportService struct {
	parser  recipeParser
	redis   *redis.Client
	recipes IRecipeService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewImportService wires the parser, draft store and recipe catalog. rdb and m may be nil.
func NewImportService(parser recipeParser, rdb *redis.Client, recipes IRecipeService, m *metrics.Metrics, logger *zap.Logger) *ImportService {
	return &ImportService{
		parser:  parser,
		redis:   rdb,
		recipes: recipes,
		metrics: m,
		logger:  logger,
	}
}

// Parse reads the photo and stores the result as a draft
func (s *ImportService) Parse(ctx context.Context, image []byte, mimeType string) (*RecipeDraft, error) {
	if s.parser == nil || !s.parser.Available() {
		s.recordParse("unavailable")
		return nil, ErrParserUnavailable
	}
	if s.redis == nil {
		s.recordParse("unavailable")
		return nil, ErrStorageUnavailable
	}

	parsed, err := s.parser.Parse(ctx, image, mimeType)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		s.recordParse("error")
		s.logger.Error("Recipe photo parse failed", zap.Error(err))
		return nil, err
	}
	s.recordParse("ok")

	now := time.Now().UTC()
	draft := &RecipeDraft{
		ID:        uuid.New().String(),
		CreatedAt: now,
		ExpiresAt: now.Add(DraftTTL),
		Recipe:    *parsed,
	}
	if err := s.saveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft loads a draft that has not expired yet
func (s *ImportService) GetDraft(ctx context.Context, id string) (*RecipeDraft, error) {
	if s.redis == nil {
		return nil, ErrStorageUnavailable
	}
	data, err := s.redis.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *ImportService) DeleteDraft(ctx context.Context, id string) error {
	if s.redis == nil {
		return ErrStorageUnavailable
	}
	n, err := s.redis.Del(ctx, draftKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// ConfirmDraft creates a recipe from the draft and discards the draft
func (s *ImportService) ConfirmDraft(ctx context.Context, id string, req ConfirmDraftRequest) (*model.Recipe, error) {
	draft, err := s.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe := DraftToRecipe(draft, req)
	created, err := s.recipes.Create(ctx, recipe)
	if err != nil {
		return nil, err
	}

	if err := s.DeleteDraft(ctx, id); err != nil && !errors.Is(err, ErrDraftNotFound) {
		s.logger.Warn("Failed to delete confirmed draft", zap.String("draft_id", id), zap.Error(err))
	}
	s.logger.Info("Recipe imported from photo", zap.String("draft_id", id), zap.String("recipe_id", created.ID.String()))
	return created, nil
}

// DraftToRecipe applies the confirmation on top of the parsed recipe
func DraftToRecipe(draft *RecipeDraft, req ConfirmDraftRequest) *model.Recipe {
	p := draft.Recipe
	r := &model.Recipe{
		Title:           p.Title,
		CookbookID:      req.CookbookID,
		PageNumber:      req.PageNumber,
		Ingredients:     append([]model.Ingredient{}, p.Ingredients...),
		Steps:           append([]model.RecipeStep{}, p.Steps...),
		Calories:        p.Calories,
		ProteinG:        p.ProteinG,
		CarbsG:          p.CarbsG,
		FatG:            p.FatG,
		PrepTimeMinutes: p.PrepTimeMinutes,
		BaseServings:    p.BaseServings,
		CategoryTags:    append([]model.CategoryTag{}, req.CategoryTags...),
		PhotoURL:        req.PhotoURL,
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		r.Title = *req.Title
	}
	if req.BaseServings != nil {
		r.BaseServings = *req.BaseServings
	}
	if r.BaseServings < 1 {
		r.BaseServings = 1
	}
	return r
}

func (s *ImportService) saveDraft(ctx context.Context, draft *RecipeDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKeyPrefix+draft.ID, data, DraftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

func (s *ImportService) recordParse(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordParse(outcome)
	}
}
