package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// ErrEmptyDescription is returned when there is no text to suggest from.
var ErrEmptyDescription = errors.New("description has no text")

// Suggestion is the SEO copy proposed for a product.
type Suggestion struct {
	Keywords  []string `json:"keywords"`
	ShortDesc string   `json:"shortDesc"`
}

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// AIService suggests keywords and a short description from a product's
// name and plain-text description.
type AIService struct {
	gen Generator
	log logrus.FieldLogger
}

func NewAIService(gen Generator, logger logrus.FieldLogger) *AIService {
	return &AIService{gen: gen, log: logger.WithField("component", "ai")}
}

const systemPrompt = `You write SEO copy for an online store admin.
Reply with a single JSON object: {"keywords": [up to 8 short lowercase phrases], "shortDesc": "one sentence, at most 160 characters"}.
No markdown, no commentary.`

// Suggest asks the model for keywords and a short description.
func (s *AIService) Suggest(ctx context.Context, name, description string) (Suggestion, error) {
	// 1. Nothing to work from
	description = strings.TrimSpace(description)
	if description == "" {
		return Suggestion{}, ErrEmptyDescription
	}

	// 2. Ask the model
	prompt := fmt.Sprintf("Product name: %s\nDescription:\n%s", strings.TrimSpace(name), description)
	reply, err := s.gen.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		return Suggestion{}, fmt.Errorf("generate suggestion: %w", err)
	}

	// 3. Parse the reply
	sug, err := parseSuggestion(reply)
	if err != nil {
		s.log.WithError(err).WithField("reply", reply).Warn("unusable model reply")
		return Suggestion{}, err
	}
	return sug, nil
}

func parseSuggestion(reply string) (Suggestion, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	var sug Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &sug); err != nil {
		return Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}

	seen := map[string]bool{}
	keywords := []string{}
	for _, k := range sug.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keywords = append(keywords, k)
	}
	sug.Keywords = keywords
	sug.ShortDesc = strings.TrimSpace(sug.ShortDesc)
	return sug, nil
}

// GeminiGenerator is a Generator backed by the Gemini API.
type GeminiGenerator struct {
	Client    *genai.Client
	ModelName string
}

// NewGeminiGenerator initializes the Gemini client.
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiGenerator{Client: client, ModelName: modelName}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	model := g.Client.GenerativeModel(g.ModelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.ResponseMIMEType = "application/json"

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", errors.New("no response")
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

// Close releases the Gemini client.
func (g *GeminiGenerator) Close() error {
	return g.Client.Close()
}
