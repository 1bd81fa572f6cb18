package promptcraft

import "fmt"

// Step names a node of the orchestration graph.
type Step int

const (
	StepDispatch Step = iota
	StepBuildContext
	StepSelectTemplate
	StepGenerate
	StepEvaluate
	StepCritique
	StepImprove
	StepImproveDirect
	StepDone
)

var stepNames = [...]string{ //nolint:gochecknoglobals
	StepDispatch:       "Dispatcher",
	StepBuildContext:   "ContextBuilder",
	StepSelectTemplate: "TemplateSelector",
	StepGenerate:       "Generator",
	StepEvaluate:       "Evaluator",
	StepCritique:       "Critique",
	StepImprove:        "LoopImprove",
	StepImproveDirect:  "ImproverDirect",
	StepDone:           "Done",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Terminal reports whether the graph stops after s.
func (s Step) Terminal() bool {
	return s == StepDone
}

// Next is the transition function of the graph. cycles is the number of
// critique/improve rounds already completed; maxCycles <= 0 means the loop is
// bounded only by the judge.
func Next(step Step, s State, cycles, maxCycles int) (Step, error) {
	switch step {
	case StepDispatch:
		if s.Mode == ModeImprove {
			return StepImproveDirect, nil
		}
		return StepBuildContext, nil
	case StepBuildContext:
		return StepSelectTemplate, nil
	case StepSelectTemplate:
		return StepGenerate, nil
	case StepGenerate:
		return StepEvaluate, nil
	case StepEvaluate:
		if !s.IssueFound {
			return StepDone, nil
		}
		if maxCycles > 0 && cycles >= maxCycles {
			return StepDone, nil
		}
		return StepCritique, nil
	case StepCritique:
		return StepImprove, nil
	case StepImprove:
		return StepEvaluate, nil
	case StepImproveDirect:
		return StepDone, nil
	case StepDone:
		return StepDone, nil
	}
	return StepDone, fmt.Errorf("no transition from %s", step)
}
