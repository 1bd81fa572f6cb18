package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/smhanov/promptcraft"
)

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // optional override of the Gemini API endpoint
	Temperature float64
	Timeout     time.Duration

	InputCostPerMTok  float64
	OutputCostPerMTok float64
}

// Gemini calls Google Gemini through the genai SDK.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGemini constructs a Gemini provider.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is missing")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

// Generate sends the user prompt with the system prompt as system
// instruction. Thought parts are returned as reasoning.
func (g *Gemini) Generate(ctx context.Context, systemPrompt, userPrompt string) (promptcraft.LLMResponse, error) {
	ctx, cancel := withDefaultTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(g.cfg.Temperature)),
	}
	if systemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(userPrompt), gc)
	if err != nil {
		return promptcraft.LLMResponse{}, fmt.Errorf("gemini: %w", err)
	}

	var text, reasoning strings.Builder
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part == nil {
				continue
			}
			if part.Thought {
				reasoning.WriteString(part.Text)
				continue
			}
			text.WriteString(part.Text)
		}
	}

	resp := promptcraft.LLMResponse{Text: text.String(), Reasoning: reasoning.String()}
	if u := result.UsageMetadata; u != nil {
		resp.Cost = tokenCost(int(u.PromptTokenCount), int(u.CandidatesTokenCount), g.cfg.InputCostPerMTok, g.cfg.OutputCostPerMTok)
	}
	return resp, nil
}
