package promptcraft

import "context"

// LLMResponse is returned by LLMProvider.Generate and carries the generated
// text, any reasoning the model emitted separately, and the cost (in dollars)
// of the call.
type LLMResponse struct {
	Text      string
	Reasoning string
	Cost      float64
}

// LLMProvider is implemented by language model clients. The system prompt
// frames the model's role; the user prompt is the human-turn instruction.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (LLMResponse, error)
}

// LLMProviderFunc adapts a plain function to the LLMProvider interface.
type LLMProviderFunc func(ctx context.Context, systemPrompt, userPrompt string) (LLMResponse, error)

// Generate calls f.
func (f LLMProviderFunc) Generate(ctx context.Context, systemPrompt, userPrompt string) (LLMResponse, error) {
	return f(ctx, systemPrompt, userPrompt)
}

// Mode selects the path a request takes through the graph.
type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeImprove  Mode = "improve"
)

// ParseMode accepts the mode names used by the front ends.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGenerate, ModeImprove:
		return Mode(s), nil
	}
	return "", ErrUnknownMode
}

// Request is the input to Crafter.Run. Generate requests use TaskDescription,
// UsePattern and SelectedPattern; improve requests use Prompt and Context.
type Request struct {
	Mode            Mode
	TaskDescription string
	UsePattern      bool
	SelectedPattern string
	Prompt          string
	Context         string
}

// Result is returned by Crafter.Run.
type Result struct {
	ID    string // correlates log lines of one invocation
	State State
	Trace []Step // every step visited, in order

	// Cycles counts completed critique/improve rounds.
	Cycles int
	// BestEffort is set when the cycle cap stopped the loop while the judge
	// still reported an issue. State.Prompt holds the latest candidate.
	BestEffort bool
	Cost       float64
}

// Visited reports whether step appears in the trace.
func (r Result) Visited(step Step) bool {
	for _, s := range r.Trace {
		if s == step {
			return true
		}
	}
	return false
}
