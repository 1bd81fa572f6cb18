package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/smhanov/promptcraft"
	"github.com/smhanov/promptcraft/config"
)

// New builds the provider selected by cfg. Call cfg.Validate (through
// config.Config.Validate) first; New does not report missing keys
// differently from other construction errors.
func New(ctx context.Context, cfg config.LLMConfig) (promptcraft.LLMProvider, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case config.ProviderGroq, config.ProviderOpenAI:
		o, err := NewOpenAI(ctx, OpenAIConfig{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Temperature:       cfg.Temperature,
			Timeout:           timeout,
			InputCostPerMTok:  cfg.InputCostPerMTok,
			OutputCostPerMTok: cfg.OutputCostPerMTok,
		})
		if err != nil {
			return nil, err
		}
		return o, nil
	case config.ProviderGemini:
		g, err := NewGemini(ctx, GeminiConfig{
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			Temperature:       cfg.Temperature,
			Timeout:           timeout,
			InputCostPerMTok:  cfg.InputCostPerMTok,
			OutputCostPerMTok: cfg.OutputCostPerMTok,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderOllama:
		o := NewOllama(cfg.BaseURL, cfg.Model, timeout)
		o.Temperature = cfg.Temperature
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
}

// withDefaultTimeout applies timeout when ctx has no deadline.
func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func tokenCost(inputTokens, outputTokens int, inPerM, outPerM float64) float64 {
	return (float64(inputTokens)*inPerM + float64(outputTokens)*outPerM) / 1e6
}
