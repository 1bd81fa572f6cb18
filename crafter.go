package promptcraft

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnknownMode = errors.New("unknown mode")
	ErrEmptyTask   = errors.New("task description is empty")
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// Crafter runs the prompt generation graph. It keeps no per-request state, so
// one Crafter may serve concurrent Run calls if its models allow it.
type Crafter struct {
	generator LLMProvider
	judge     LLMProvider
	critic    LLMProvider
	improver  LLMProvider
	maxCycles int
	threshold float64
	logger    *zap.Logger
	debug     bool
}

// New constructs a Crafter with optional configuration.
func New(opts ...Option) *Crafter {
	c := &Crafter{
		maxCycles: defaultMaxCycles,
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate is shorthand for a generate request. An empty pattern means no
// pattern.
func (c *Crafter) Generate(ctx context.Context, task, pattern string) (Result, error) {
	return c.Run(ctx, Request{
		Mode:            ModeGenerate,
		TaskDescription: task,
		UsePattern:      strings.TrimSpace(pattern) != "",
		SelectedPattern: pattern,
	})
}

// Improve is shorthand for an improve request.
func (c *Crafter) Improve(ctx context.Context, prompt, context string) (Result, error) {
	return c.Run(ctx, Request{Mode: ModeImprove, Prompt: prompt, Context: context})
}

// Run drives one request through the graph until a terminal step.
func (c *Crafter) Run(ctx context.Context, req Request) (Result, error) {
	if err := c.validate(req); err != nil {
		return Result{}, err
	}

	res := Result{ID: uuid.NewString()}
	log := c.logger.With(zap.String("request_id", res.ID), zap.String("mode", string(req.Mode)))
	log.Info("request started")

	state := NewState(req)
	step := StepDispatch
	for !step.Terminal() {
		if err := ctx.Err(); err != nil {
			res.State = state
			return res, err
		}
		res.Trace = append(res.Trace, step)

		patch, err := c.runStep(ctx, log, step, state)
		if err != nil {
			res.State = state
			return res, fmt.Errorf("%s: %w", strings.ToLower(step.String()), err)
		}
		state = state.Apply(patch)
		res.Cost += patch.Cost
		if step == StepImprove {
			res.Cycles++
		}

		next, err := Next(step, state, res.Cycles, c.maxCycles)
		if err != nil {
			res.State = state
			return res, err
		}
		if step == StepEvaluate && next == StepDone && state.IssueFound {
			res.BestEffort = true
			log.Warn("cycle cap reached, returning best-effort prompt",
				zap.Int("cycles", res.Cycles), zap.Float64("score", state.Score))
		}
		step = next
	}

	res.State = state
	log.Info("request finished",
		zap.Int("steps", len(res.Trace)),
		zap.Int("cycles", res.Cycles),
		zap.Bool("best_effort", res.BestEffort),
		zap.Float64("cost", res.Cost))
	return res, nil
}

func (c *Crafter) validate(req Request) error {
	switch req.Mode {
	case ModeGenerate:
		if strings.TrimSpace(req.TaskDescription) == "" {
			return ErrEmptyTask
		}
		if c.generator == nil {
			return errors.New("generator model is not configured")
		}
		if c.judge == nil {
			return errors.New("judge model is not configured")
		}
		if c.critic == nil {
			return errors.New("critic model is not configured")
		}
		if c.improver == nil {
			return errors.New("improver model is not configured")
		}
	case ModeImprove:
		if strings.TrimSpace(req.Prompt) == "" {
			return ErrEmptyPrompt
		}
		if c.improver == nil {
			return errors.New("improver model is not configured")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
	return nil
}

// complete issues one completion and returns its usable text.
func (c *Crafter) complete(ctx context.Context, log *zap.Logger, step Step, m LLMProvider, sys, user string) (string, float64, error) {
	if c.debug {
		log.Debug("llm request",
			zap.Stringer("step", step),
			zap.String("system", sys),
			zap.String("user", user))
	}
	resp, err := m.Generate(ctx, sys, user)
	if err != nil {
		return "", 0, err
	}
	text := getContent(resp)
	if c.debug {
		log.Debug("llm response",
			zap.Stringer("step", step),
			zap.String("text", text),
			zap.Int("reasoning_chars", len(resp.Reasoning)))
	}
	return text, resp.Cost, nil
}
