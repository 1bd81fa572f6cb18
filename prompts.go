package promptcraft

import (
	"regexp"
	"strings"
)

const generatorSystemPrompt = "You are an expert prompt engineer."

const evaluatorSystemPrompt = "Respond with only a float."

const critiqueSystemPrompt = "Be a constructive prompt critic."

const loopImproverSystemPrompt = "Improve this prompt based on feedback."

const directImproverSystemPrompt = "Improve this prompt with the given context."

func buildContext(task string) string {
	return "You are a helpful assistant. Task: " + task
}

func buildEvaluatorUserPrompt(prompt string) string {
	var b strings.Builder
	b.WriteString("Evaluate this prompt: '")
	b.WriteString(prompt)
	b.WriteString("'. Return only a float score between 0.0 and 1.0")
	return b.String()
}

func buildCritiqueUserPrompt(prompt string) string {
	return "Critique and suggest improvements: " + prompt
}

func buildLoopImproverUserPrompt(feedback, prompt string) string {
	var b strings.Builder
	b.WriteString("Feedback: ")
	b.WriteString(feedback)
	b.WriteString("\nPrompt: ")
	b.WriteString(prompt)
	return b.String()
}

func buildDirectImproverUserPrompt(prompt, context string) string {
	var b strings.Builder
	b.WriteString("Prompt: ")
	b.WriteString(prompt)
	b.WriteString("\nContext: ")
	b.WriteString(context)
	return b.String()
}

var thinkRegex = regexp.MustCompile(`(?s)<think>.*?</think>`) //nolint:gochecknoglobals

// StripThinkBlocks removes <think>...</think> blocks from LLM responses.
// Reasoning models served through Groq and Ollama emit them inline.
func StripThinkBlocks(s string) string {
	return strings.TrimSpace(thinkRegex.ReplaceAllString(s, ""))
}

// getContent extracts usable text from an LLM response. It strips <think>
// blocks from Text first and falls back to Reasoning when Text is empty.
func getContent(resp LLMResponse) string {
	text := StripThinkBlocks(resp.Text)
	if text != "" {
		return text
	}
	return StripThinkBlocks(resp.Reasoning)
}

// OrNone renders an absent field the way the front ends display it.
func OrNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "<None>"
	}
	return s
}
