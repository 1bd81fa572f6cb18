package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/smhanov/promptcraft"
)

// chatModel is the part of the eino chat model API the provider uses.
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// OpenAIConfig configures an OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration

	// Prices in dollars per million tokens.
	InputCostPerMTok  float64
	OutputCostPerMTok float64
}

// OpenAI calls a chat completions endpoint through the eino OpenAI model.
type OpenAI struct {
	cm      chatModel
	cfg     OpenAIConfig
	timeout time.Duration
}

// NewOpenAI constructs an OpenAI-compatible provider.
func NewOpenAI(ctx context.Context, cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is missing")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model is missing")
	}
	temp := float32(cfg.Temperature)
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		Temperature: &temp,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: create chat model: %w", err)
	}
	return newOpenAIWithModel(cm, cfg), nil
}

func newOpenAIWithModel(cm chatModel, cfg OpenAIConfig) *OpenAI {
	return &OpenAI{cm: cm, cfg: cfg, timeout: cfg.Timeout}
}

// Generate sends one system and one user message.
func (o *OpenAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (promptcraft.LLMResponse, error) {
	ctx, cancel := withDefaultTimeout(ctx, o.timeout)
	defer cancel()

	msg, err := o.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		return promptcraft.LLMResponse{}, fmt.Errorf("openai: %w", err)
	}
	if msg == nil {
		return promptcraft.LLMResponse{}, errors.New("openai: empty response")
	}

	resp := promptcraft.LLMResponse{Text: msg.Content, Reasoning: msg.ReasoningContent}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		u := msg.ResponseMeta.Usage
		resp.Cost = tokenCost(u.PromptTokens, u.CompletionTokens, o.cfg.InputCostPerMTok, o.cfg.OutputCostPerMTok)
	}
	return resp, nil
}
