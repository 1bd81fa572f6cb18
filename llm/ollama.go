package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smhanov/promptcraft"
)

// Ollama implements promptcraft.LLMProvider using the Ollama /api/generate
// endpoint.
type Ollama struct {
	Endpoint    string
	Model       string
	Temperature float64
	client      *http.Client
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Thinking string `json:"thinking"`
	Done     bool   `json:"done"`
}

// NewOllama constructs an Ollama provider with a client timeout.
func NewOllama(endpoint, model string, timeout time.Duration) *Ollama {
	return &Ollama{Endpoint: endpoint, Model: model, client: &http.Client{Timeout: timeout}}
}

// NewOllamaWithClient constructs an Ollama provider using the supplied HTTP client.
func NewOllamaWithClient(endpoint, model string, client *http.Client) *Ollama {
	return &Ollama{Endpoint: endpoint, Model: model, client: client}
}

// Generate posts a non-streaming generate request.
func (o *Ollama) Generate(ctx context.Context, systemPrompt, userPrompt string) (promptcraft.LLMResponse, error) {
	if strings.TrimSpace(o.Model) == "" {
		return promptcraft.LLMResponse{}, errors.New("ollama: model is missing")
	}
	url := fmt.Sprintf("%s/api/generate", normalizeEndpoint(o.Endpoint))

	jsonData, err := json.Marshal(ollamaRequest{
		Model:   o.Model,
		Prompt:  userPrompt,
		System:  systemPrompt,
		Stream:  false,
		Options: map[string]any{"temperature": o.Temperature},
	})
	if err != nil {
		return promptcraft.LLMResponse{}, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return promptcraft.LLMResponse{}, fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := o.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return promptcraft.LLMResponse{}, fmt.Errorf("ollama: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return promptcraft.LLMResponse{}, fmt.Errorf("ollama: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return promptcraft.LLMResponse{}, fmt.Errorf("ollama API error: %s - %s", resp.Status, string(body))
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return promptcraft.LLMResponse{}, fmt.Errorf("ollama: parse response: %w", err)
	}
	return promptcraft.LLMResponse{
		Text:      strings.TrimSpace(parsed.Response),
		Reasoning: strings.TrimSpace(parsed.Thinking),
	}, nil
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = "localhost:11434"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}
	return endpoint
}
