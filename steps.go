package promptcraft

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/smhanov/promptcraft/pattern"
)

func (c *Crafter) runStep(ctx context.Context, log *zap.Logger, step Step, s State) (Patch, error) {
	log.Debug("step", zap.Stringer("step", step))
	switch step {
	case StepDispatch:
		return Patch{}, nil
	case StepBuildContext:
		return Patch{Context: ptr(buildContext(s.TaskDescription))}, nil
	case StepSelectTemplate:
		return Patch{BaseTemplate: ptr(pattern.Expand(s.TaskDescription, s.Pattern()))}, nil
	case StepGenerate:
		return c.generate(ctx, log, s)
	case StepEvaluate:
		return c.evaluate(ctx, log, s)
	case StepCritique:
		return c.critique(ctx, log, s)
	case StepImprove:
		return c.loopImprove(ctx, log, s)
	case StepImproveDirect:
		return c.improveDirect(ctx, log, s)
	case StepDone:
		return Patch{}, nil
	}
	return Patch{}, fmt.Errorf("unhandled step %s", step)
}

func (c *Crafter) generate(ctx context.Context, log *zap.Logger, s State) (Patch, error) {
	text, cost, err := c.complete(ctx, log, StepGenerate, c.generator, generatorSystemPrompt, s.BaseTemplate)
	if err != nil {
		return Patch{}, err
	}
	return Patch{Prompt: ptr(text), Cost: cost}, nil
}

func (c *Crafter) evaluate(ctx context.Context, log *zap.Logger, s State) (Patch, error) {
	text, cost, err := c.complete(ctx, log, StepEvaluate, c.judge, evaluatorSystemPrompt, buildEvaluatorUserPrompt(s.Prompt))
	if err != nil {
		return Patch{}, err
	}
	score := ParseScore(text)
	if score > 1 {
		log.Warn("score out of range", zap.Float64("score", score), zap.String("raw", text))
	}
	issue := issueFound(score, c.threshold)
	log.Info("prompt evaluated", zap.Float64("score", score), zap.Bool("issue_found", issue))
	return Patch{Score: ptr(score), IssueFound: ptr(issue), Cost: cost}, nil
}

func (c *Crafter) critique(ctx context.Context, log *zap.Logger, s State) (Patch, error) {
	text, cost, err := c.complete(ctx, log, StepCritique, c.critic, critiqueSystemPrompt, buildCritiqueUserPrompt(s.Prompt))
	if err != nil {
		return Patch{}, err
	}
	return Patch{Feedback: ptr(text), Cost: cost}, nil
}

func (c *Crafter) loopImprove(ctx context.Context, log *zap.Logger, s State) (Patch, error) {
	user := buildLoopImproverUserPrompt(s.Feedback, s.Prompt)
	text, cost, err := c.complete(ctx, log, StepImprove, c.improver, loopImproverSystemPrompt, user)
	if err != nil {
		return Patch{}, err
	}
	return Patch{Prompt: ptr(text), Cost: cost}, nil
}

func (c *Crafter) improveDirect(ctx context.Context, log *zap.Logger, s State) (Patch, error) {
	user := buildDirectImproverUserPrompt(s.Prompt, s.Context)
	text, cost, err := c.complete(ctx, log, StepImproveDirect, c.improver, directImproverSystemPrompt, user)
	if err != nil {
		return Patch{}, err
	}
	return Patch{ImprovedPrompt: ptr(text), Cost: cost}, nil
}
