package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/weekplate/backend/internal/model"
)

// ParserConfig configures the chat-completion endpoint used to read recipe photos
type ParserConfig struct {
	APIKey      string
	URL         string
	Model       string
	CallsPerSec float64
	Timeout     time.Duration
}

// ParsedRecipe is what the model read off a cookbook page
type ParsedRecipe struct {
	Title           string             `json:"title"`
	Ingredients     []model.Ingredient `json:"ingredients"`
	Steps           []model.RecipeStep `json:"steps"`
	Calories        *int               `json:"calories"`
	ProteinG        *float64           `json:"protein_g"`
	CarbsG          *float64           `json:"carbs_g"`
	FatG            *float64           `json:"fat_g"`
	PrepTimeMinutes *int               `json:"prep_time_minutes"`
	BaseServings    int                `json:"base_servings"`
}

// RecipeParser sends cookbook photos to an OpenAI-compatible vision model
type RecipeParser struct {
	cfg     ParserConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRecipeParser creates a parser. Without an API key Available reports false.
func NewRecipeParser(cfg ParserConfig, logger *zap.Logger) *RecipeParser {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	limit := rate.Inf
	if cfg.CallsPerSec > 0 {
		limit = rate.Limit(cfg.CallsPerSec)
	}
	return &RecipeParser{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

func (p *RecipeParser) Available() bool {
	return p != nil && p.cfg.APIKey != "" && p.cfg.URL != ""
}

const extractionPrompt = `Read the recipe in this photo of a cookbook page and answer with a single JSON object, no prose.
Fields:
- "title": string
- "ingredients": array of {"name": string, "amount": number, "unit": string, "category": one of "fruits_vegetables", "meat_fish", "dairy", "dry_goods", "spices", "other"}
- "steps": array of {"step_number": integer, "instruction": string, "duration_seconds": integer or null}
- "calories": integer per serving or null
- "protein_g", "carbs_g", "fat_g": number per serving or null
- "prep_time_minutes": integer or null
- "base_servings": integer, the number of servings the amounts are written for
Keep ingredient names and instructions in the language printed on the page. Use metric units where the page does.`

type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Parse extracts a recipe from a photo
func (p *RecipeParser) Parse(ctx context.Context, image []byte, mimeType string) (*ParsedRecipe, error) {
	if !p.Available() {
		return nil, ErrParserUnavailable
	}
	if len(image) == 0 {
		return nil, invalidf("image is empty")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, invalidf("unsupported content type %q", mimeType)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for parser slot: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model:     p.cfg.Model,
		MaxTokens: 4096,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContent{
				{Type: "image_url", ImageURL: &chatImageURL{URL: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)}},
				{Type: "text", Text: extractionPrompt},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result chatResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("parser returned an error: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser returned status %d", resp.StatusCode)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("parser returned no choices")
	}

	parsed, err := decodeParsedRecipe(result.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Recipe photo parsed",
		zap.String("title", parsed.Title),
		zap.Int("ingredients", len(parsed.Ingredients)),
		zap.Duration("duration", time.Since(start)),
	)
	return parsed, nil
}

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// stripCodeFence removes a surrounding markdown code block
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if m := codeFence.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return content
}

// flexNumber accepts a JSON number, a numeric string or null
type flexNumber struct {
	Value *float64
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Value = &num
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(strings.Replace(str, ",", ".", 1))
		if v, err := strconv.ParseFloat(str, 64); err == nil {
			f.Value = &v
		}
		return nil
	}
	return fmt.Errorf("invalid number %s", data)
}

func (f flexNumber) intPtr() *int {
	if f.Value == nil || *f.Value < 0 {
		return nil
	}
	v := int(*f.Value + 0.5)
	return &v
}

func (f flexNumber) floatPtr() *float64 {
	if f.Value == nil || *f.Value < 0 {
		return nil
	}
	v := *f.Value
	return &v
}

type rawRecipe struct {
	Title       string `json:"title"`
	Ingredients []struct {
		Name     string     `json:"name"`
		Amount   flexNumber `json:"amount"`
		Unit     string     `json:"unit"`
		Category string     `json:"category"`
	} `json:"ingredients"`
	Steps []struct {
		StepNumber      flexNumber `json:"step_number"`
		Instruction     string     `json:"instruction"`
		DurationSeconds flexNumber `json:"duration_seconds"`
	} `json:"steps"`
	Calories        flexNumber `json:"calories"`
	ProteinG        flexNumber `json:"protein_g"`
	CarbsG          flexNumber `json:"carbs_g"`
	FatG            flexNumber `json:"fat_g"`
	PrepTimeMinutes flexNumber `json:"prep_time_minutes"`
	BaseServings    flexNumber `json:"base_servings"`
}

// decodeParsedRecipe turns the model's answer into a ParsedRecipe, dropping
// unusable ingredients and normalizing categories and step numbers
func decodeParsedRecipe(content string) (*ParsedRecipe, error) {
	var raw rawRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode parsed recipe: %w", err)
	}

	out := &ParsedRecipe{
		Title:           strings.TrimSpace(raw.Title),
		Calories:        raw.Calories.intPtr(),
		ProteinG:        raw.ProteinG.floatPtr(),
		CarbsG:          raw.CarbsG.floatPtr(),
		FatG:            raw.FatG.floatPtr(),
		PrepTimeMinutes: raw.PrepTimeMinutes.intPtr(),
		BaseServings:    1,
		Ingredients:     []model.Ingredient{},
		Steps:           []model.RecipeStep{},
	}
	if n := raw.BaseServings.intPtr(); n != nil && *n >= 1 {
		out.BaseServings = *n
	}

	for _, ing := range raw.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		category := model.IngredientCategory(ing.Category)
		if category.Rank() == len(model.IngredientCategories) {
			category = model.Other
		}
		amount := 0.0
		if v := ing.Amount.floatPtr(); v != nil {
			amount = *v
		}
		out.Ingredients = append(out.Ingredients, model.Ingredient{
			Name:     name,
			Amount:   amount,
			Unit:     strings.TrimSpace(ing.Unit),
			Category: category,
		})
	}

	for _, st := range raw.Steps {
		text := strings.TrimSpace(st.Instruction)
		if text == "" {
			continue
		}
		out.Steps = append(out.Steps, model.RecipeStep{
			StepNumber:      len(out.Steps) + 1,
			Instruction:     text,
			DurationSeconds: st.DurationSeconds.intPtr(),
		})
	}
	return out, nil
}
