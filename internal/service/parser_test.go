package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/weekplate/backend/internal/model"
)

const fencedAnswer = "```json\n" + `{
  "title": "Kürbissuppe",
  "ingredients": [
    {"name": "Hokkaido", "amount": "1", "unit": "Stück", "category": "fruits_vegetables"},
    {"name": "Sahne", "amount": 200, "unit": "ml", "category": "dairy"},
    {"name": "Muskat", "amount": null, "unit": "Prise", "category": "herbs"},
    {"name": " ", "amount": 3, "unit": "g", "category": "other"}
  ],
  "steps": [
    {"step_number": 1, "instruction": "Kürbis würfeln.", "duration_seconds": null},
    {"step_number": 2, "instruction": " ", "duration_seconds": null},
    {"step_number": 3, "instruction": "25 Minuten köcheln.", "duration_seconds": "1500"}
  ],
  "calories": 412.6,
  "protein_g": "8,5",
  "carbs_g": 30,
  "fat_g": null,
  "prep_time_minutes": 35,
  "base_servings": "4"
}` + "\n```"

func chatServer(t *testing.T, status int, payload interface{}, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func answer(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []interface{}{
			map[string]interface{}{"message": map[string]interface{}{"content": content}},
		},
	}
}

func TestRecipeParserParsesFencedAnswer(t *testing.T) {
	var seen chatRequest
	srv := chatServer(t, http.StatusOK, answer(fencedAnswer), &seen)
	parser := NewRecipeParser(ParserConfig{APIKey: "test-key", URL: srv.URL, Model: "vision-model"}, zap.NewNop())

	got, err := parser.Parse(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "vision-model", seen.Model)
	require.Len(t, seen.Messages, 1)
	require.Len(t, seen.Messages[0].Content, 2)
	assert.Equal(t, "data:image/jpeg;base64,/9g=", seen.Messages[0].Content[0].ImageURL.URL)
	assert.Equal(t, "text", seen.Messages[0].Content[1].Type)

	assert.Equal(t, "Kürbissuppe", got.Title)
	require.Len(t, got.Ingredients, 3)
	assert.Equal(t, 1.0, got.Ingredients[0].Amount)
	assert.Equal(t, model.Dairy, got.Ingredients[1].Category)
	assert.Equal(t, model.Other, got.Ingredients[2].Category)
	assert.Zero(t, got.Ingredients[2].Amount)

	require.Len(t, got.Steps, 2)
	assert.Equal(t, 2, got.Steps[1].StepNumber)
	require.NotNil(t, got.Steps[1].DurationSeconds)
	assert.Equal(t, 1500, *got.Steps[1].DurationSeconds)

	assert.Equal(t, 413, *got.Calories)
	assert.Equal(t, 8.5, *got.ProteinG)
	assert.Nil(t, got.FatG)
	assert.Equal(t, 35, *got.PrepTimeMinutes)
	assert.Equal(t, 4, got.BaseServings)
}

func TestRecipeParserReportsProviderError(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, map[string]interface{}{
		"error": map[string]interface{}{"message": "quota exceeded"},
	}, nil)
	parser := NewRecipeParser(ParserConfig{APIKey: "test-key", URL: srv.URL}, zap.NewNop())

	_, err := parser.Parse(context.Background(), []byte("img"), "image/png")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestRecipeParserRejectsNonJSONAnswer(t *testing.T) {
	srv := chatServer(t, http.StatusOK, answer("Sorry, I cannot read this page."), nil)
	parser := NewRecipeParser(ParserConfig{APIKey: "test-key", URL: srv.URL}, zap.NewNop())

	_, err := parser.Parse(context.Background(), []byte("img"), "image/png")
	assert.ErrorContains(t, err, "failed to decode parsed recipe")
}

func TestRecipeParserUnavailableWithoutKey(t *testing.T) {
	parser := NewRecipeParser(ParserConfig{URL: "http://localhost"}, zap.NewNop())
	assert.False(t, parser.Available())

	_, err := parser.Parse(context.Background(), []byte("img"), "image/png")
	assert.ErrorIs(t, err, ErrParserUnavailable)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
	assert.True(t, strings.HasPrefix(stripCodeFence("plain text"), "plain"))
}

func TestDecodeParsedRecipeDefaultsServings(t *testing.T) {
	got, err := decodeParsedRecipe(`{"title":" Brot ","base_servings":0}`)
	require.NoError(t, err)
	assert.Equal(t, "Brot", got.Title)
	assert.Equal(t, 1, got.BaseServings)
	assert.NotNil(t, got.Ingredients)
	assert.Nil(t, got.Calories)
}
