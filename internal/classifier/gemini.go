package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"talentscope/cs-evaluator/internal/logger"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	maxLogPreview      = 200
)

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

type geminiGenerator struct {
	client    *genai.Client
	modelName string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (TextGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiGenerator{
		client:    client,
		modelName: model,
	}, nil
}

func (g *geminiGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  256,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return text, nil
}

// Gemini asks a language model for the fit probability.
type Gemini struct {
	generator  TextGenerator
	maxRetries int
	logger     *zap.Logger
}

func NewGemini(generator TextGenerator, maxRetries int, logger *zap.Logger) *Gemini {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Gemini{
		generator:  generator,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) Predict(ctx context.Context, features [4]float64) (float64, error) {
	prompt := BuildFitPrompt(features)

	g.logger.Debug("gemini fit request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		raw, err := g.generator.GenerateText(ctx, prompt, 0)
		if err == nil {
			g.logger.Debug("gemini fit response",
				zap.Int("attempt", attempt),
				zap.String("response_preview", logger.TruncateForLog(raw, maxLogPreview)),
			)
			return parseProbability(raw)
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("context cancelled: %w", ctxErr)
		}

		if attempt < g.maxRetries {
			g.logger.Warn("gemini attempt failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
	}

	return 0, fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

func BuildFitPrompt(features [4]float64) string {
	degree := "Completo"
	if features[3] == 1 {
		degree = "Cursando"
	}

	return fmt.Sprintf(`You are an experienced recruiter screening candidates for a Customer Success internship.

CANDIDATE PROFILE:
- Experience: %g months
- CRM knowledge (1-5): %.0f
- English proficiency (1-5): %.0f
- Degree status: %s

Estimate the probability that this candidate fits the internship.

Return ONLY a JSON object in the following format:
{
  "probability": <decimal between 0 and 1>
}`, features[0], features[1], features[2], degree)
}

func parseProbability(raw string) (float64, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return 0, fmt.Errorf("parse gemini response: %w", err)
	}

	value, ok := data["probability"]
	if !ok {
		return 0, fmt.Errorf("gemini response has no probability field")
	}

	p := coerceFloat(value)
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("gemini probability %v outside [0,1]", value)
	}
	return p, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		return raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
