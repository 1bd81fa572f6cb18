// Package llm provides promptcraft.LLMProvider implementations.
//
// Available providers:
//
//   - OpenAI: any OpenAI-compatible chat completions endpoint, including Groq
//     (the default) and OpenAI itself
//   - Gemini: Google Gemini through the genai SDK
//   - Ollama: a local Ollama server, no API key required
//
// # Groq Example
//
//	provider, err := llm.NewOpenAI(ctx, llm.OpenAIConfig{
//	    APIKey:  os.Getenv("GROQ_API_KEY"),
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    Model:   "llama-3.1-8b-instant",
//	})
//
// # From configuration
//
//	cfg, _ := config.Load("promptcraft.yaml")
//	provider, err := llm.New(ctx, cfg.LLM)
//
// Every provider applies its configured timeout when the caller's context
// has no deadline, and reports token cost when prices are configured.
package llm
