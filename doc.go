// Package promptcraft turns a task description into a large-language-model
// prompt, optionally shaped by a named prompt design pattern, and refines it
// with a judge/critic loop until the judge is satisfied. It can also improve
// an existing prompt given free-form context.
//
// # Architecture
//
// A request walks a small graph of steps. Each step receives the current
// State and returns a Patch; the driver merges patches and picks the next
// step with the Next transition function:
//
//	Dispatcher ──generate──▶ ContextBuilder ▶ TemplateSelector ▶ Generator ▶ Evaluator
//	     │                                                           ▲          │ issue
//	     │                                                           │          ▼
//	     │                                                      LoopImprove ◀ Critique
//	     └──improve──▶ ImproverDirect
//
//  1. The TemplateSelector expands the task with the pattern library (see
//     package pattern).
//  2. The Generator turns the expanded template into a prompt.
//  3. The Evaluator asks the judge model for a score in [0, 1]. A reply
//     without a number scores DefaultScore.
//  4. While the score is below the threshold (0.7 by default) the prompt is
//     critiqued and rewritten, at most WithMaxCycles times. When the cap ends
//     the loop Result.BestEffort is set.
//
// # Cost Tracking
//
// LLMProvider.Generate returns an LLMResponse with the text and the cost of
// the call. Result.Cost sums every call made for the request.
//
// # Basic Usage
//
//	crafter := promptcraft.New(
//	    promptcraft.WithModel(myLLM),
//	    promptcraft.WithMaxCycles(3),
//	    promptcraft.WithLogger(logger),
//	)
//
//	res, err := crafter.Generate(ctx, "summarize meeting notes", "persona")
//	fmt.Println(res.State.BaseTemplate)
//	fmt.Println(res.State.Prompt)
//
//	res, err = crafter.Improve(ctx, "Write a poem", "Make it rhyme")
//	fmt.Println(res.State.ImprovedPrompt)
//
// # Interfaces
//
// Implement LLMProvider to connect any language model:
//
//	type LLMProvider interface {
//	    Generate(ctx context.Context, systemPrompt, userPrompt string) (LLMResponse, error)
//	}
//
// Package llm ships providers for OpenAI-compatible endpoints (Groq, OpenAI),
// Gemini and Ollama.
package promptcraft
