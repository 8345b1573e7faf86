package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"trip-planner-backend/internal/config"
	"trip-planner-backend/internal/metrics"
	"trip-planner-backend/internal/models"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	defaultDescription = "An amazing trip awaits!"
	defaultBudget      = 1000
	systemInstruction  = "You are a helpful travel planning assistant."
)

var errNotArray = errors.New("response is not a JSON array")

// Completer turns a prompt into model text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiCompleter calls the Gemini API
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiCompleter creates a Gemini client from cfg
func NewGeminiCompleter(ctx context.Context, cfg config.AIConfig) (*GeminiCompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai.api_key is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: cfg.Model, temperature: cfg.Temperature}, nil
}

// Complete sends one prompt and returns the text of the reply
func (c *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(c.temperature),
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}

// AIService builds travel prompts and recovers from malformed replies.
// Every operation degrades to a fixed fallback instead of failing.
type AIService struct {
	completer Completer
	cache     *cache.Cache
}

// NewAIService creates an AI service. A nil completer makes every call
// return its fallback.
func NewAIService(completer Completer, ttl, cleanup time.Duration) *AIService {
	return &AIService{
		completer: completer,
		cache:     cache.New(ttl, cleanup),
	}
}

// complete runs prompt through the cache and the model.
// Only successful completions are cached.
func (s *AIService) complete(ctx context.Context, operation, prompt string) (string, error) {
	if s.completer == nil {
		metrics.AIRequests.WithLabelValues(operation, "disabled").Inc()
		return "", fmt.Errorf("ai completion is not configured")
	}

	key := operation + "\x00" + prompt
	if cached, ok := s.cache.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("ai", "hit").Inc()
		return cached.(string), nil
	}
	metrics.CacheLookups.WithLabelValues("ai", "miss").Inc()

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		metrics.AIRequests.WithLabelValues(operation, "error").Inc()
		log.Warn().Err(err).Str("operation", operation).Msg("AI completion failed")
		return "", err
	}
	metrics.AIRequests.WithLabelValues(operation, "ok").Inc()
	s.cache.SetDefault(key, text)
	return text, nil
}

// SuggestPlaces asks for places worth visiting. Any failure yields an empty list.
func (s *AIService) SuggestPlaces(ctx context.Context, destination string, days int, interests []string) []models.Recommendation {
	prompt := fmt.Sprintf(`You are a travel expert AI. Suggest top places to visit in %s for a %d-day trip.
User interests: %s.
Provide 10 must-visit places with brief descriptions. Format as JSON array with fields: name, description, estimatedDuration (in minutes), type, rating (1-5).`,
		destination, days, strings.Join(interests, ", "))

	text, err := s.complete(ctx, "suggest_places", prompt)
	if err != nil {
		return []models.Recommendation{}
	}
	recs, err := parseRecommendations(text)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding malformed place suggestions")
		return []models.Recommendation{}
	}
	return recs
}

// OptimizeOrder asks for a visiting order and returns place names.
// A nil result means the current order should be kept.
func (s *AIService) OptimizeOrder(ctx context.Context, places []*models.Place, start, end time.Time) []string {
	if len(places) < 2 {
		return nil
	}

	type placeInfo struct {
		Name     string  `json:"name"`
		Duration int     `json:"duration"`
		Lat      float64 `json:"lat"`
		Lng      float64 `json:"lng"`
	}
	infos := make([]placeInfo, len(places))
	for i, p := range places {
		infos[i] = placeInfo{Name: p.Name, Duration: p.EstimatedDuration, Lat: p.Latitude, Lng: p.Longitude}
	}
	encoded, err := json.Marshal(infos)
	if err != nil {
		return nil
	}

	prompt := fmt.Sprintf(`You are a travel planning AI. Optimize this itinerary for maximum efficiency.
Places: %s
Trip duration: %s to %s
Consider: travel time between locations, opening hours, and logical grouping.
Return the places in optimal visit order as JSON array with place names.`,
		encoded, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))

	text, err := s.complete(ctx, "optimize_order", prompt)
	if err != nil {
		return nil
	}
	order, err := ParseOrder(text)
	if err != nil {
		log.Debug().Err(err).Msg("Keeping current itinerary order")
		return nil
	}
	return order
}

// Describe writes a short trip description
func (s *AIService) Describe(ctx context.Context, destination string, placeNames []string) string {
	prompt := fmt.Sprintf(`Write a compelling 2-3 sentence trip description for a vacation to %s
visiting: %s. Make it exciting and informative.`, destination, strings.Join(placeNames, ", "))

	text, err := s.complete(ctx, "describe", prompt)
	if err != nil {
		return defaultDescription
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return defaultDescription
	}
	return text
}

// SuggestBudget estimates a budget in USD
func (s *AIService) SuggestBudget(ctx context.Context, destination string, days, travelers int) int {
	prompt := fmt.Sprintf(`Estimate a reasonable budget in USD for %d traveler(s)
visiting %s for %d days. Include accommodation, food, transport, and activities.
Return only the number.`, travelers, destination, days)

	text, err := s.complete(ctx, "budget", prompt)
	if err != nil {
		return defaultBudget
	}
	return parseBudget(text)
}

// Tips returns a handful of travel tips for destination
func (s *AIService) Tips(ctx context.Context, destination string) []string {
	prompt := fmt.Sprintf(`Provide 5 essential travel tips for visiting %s.
Format as JSON array of strings.`, destination)

	text, err := s.complete(ctx, "tips", prompt)
	if err != nil {
		return []string{}
	}
	return parseTips(text)
}

// cleanJSONResponse strips markdown code fences around a JSON reply
func cleanJSONResponse(response string) string {
	cleaned := strings.ReplaceAll(response, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// ParseOrder reads a JSON array of place names. Entries that are not strings
// are skipped. Anything other than an array is an error.
func ParseOrder(text string) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotArray, err)
	}
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		var name string
		if err := json.Unmarshal(r, &name); err == nil {
			names = append(names, name)
		}
	}
	return names, nil
}

func parseRecommendations(text string) ([]models.Recommendation, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotArray, err)
	}
	recs := make([]models.Recommendation, 0, len(raw))
	for _, r := range raw {
		var rec models.Recommendation
		if err := json.Unmarshal(r, &rec); err != nil || strings.TrimSpace(rec.Name) == "" {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

var firstInteger = regexp.MustCompile(`\d+`)

// parseBudget takes the first run of digits, so "$2,500" reads as 2
func parseBudget(text string) int {
	match := firstInteger.FindString(text)
	if match == "" {
		return defaultBudget
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return defaultBudget
	}
	return n
}

// parseTips reads a JSON array of strings, or else one tip per non-empty line
func parseTips(text string) []string {
	cleaned := cleanJSONResponse(text)
	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		tips := []string{}
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				tips = append(tips, line)
			}
		}
		return tips
	}

	items, ok := parsed.([]any)
	if !ok {
		return []string{}
	}
	tips := make([]string, 0, len(items))
	for _, item := range items {
		if tip, ok := item.(string); ok {
			tips = append(tips, tip)
		}
	}
	return tips
}
