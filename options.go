package promptcraft

import "go.uber.org/zap"

const defaultMaxCycles = 3

// Option configures a Crafter.
type Option func(*Crafter)

// WithModel sets the model used for every completion. Role-specific options
// applied after it take precedence.
func WithModel(m LLMProvider) Option {
	return func(c *Crafter) {
		c.generator = m
		c.judge = m
		c.critic = m
		c.improver = m
	}
}

// WithGeneratorModel sets the model that writes the first prompt draft.
func WithGeneratorModel(m LLMProvider) Option {
	return func(c *Crafter) { c.generator = m }
}

// WithJudgeModel sets the model that scores prompts.
func WithJudgeModel(m LLMProvider) Option {
	return func(c *Crafter) { c.judge = m }
}

// WithCriticModel sets the model that critiques low-scoring prompts.
func WithCriticModel(m LLMProvider) Option {
	return func(c *Crafter) { c.critic = m }
}

// WithImproverModel sets the model that rewrites prompts, both inside the
// critique loop and on the improve path.
func WithImproverModel(m LLMProvider) Option {
	return func(c *Crafter) { c.improver = m }
}

// WithMaxCycles caps the number of critique/improve rounds per request.
func WithMaxCycles(n int) Option {
	return func(c *Crafter) {
		if n > 0 {
			c.maxCycles = n
		}
	}
}

// WithUnboundedCycles removes the cycle cap. The loop then ends only when the
// judge is satisfied or the context is done.
func WithUnboundedCycles() Option {
	return func(c *Crafter) { c.maxCycles = 0 }
}

// WithThreshold sets the score below which a prompt is critiqued.
func WithThreshold(t float64) Option {
	return func(c *Crafter) {
		if t > 0 {
			c.threshold = t
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Crafter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDebug enables debug logging of all LLM prompts and responses.
func WithDebug(enabled bool) Option {
	return func(c *Crafter) { c.debug = enabled }
}
