package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/smhanov/promptcraft"
	"github.com/smhanov/promptcraft/config"
	"github.com/smhanov/promptcraft/internal/transcript"
)

const (
	sysGenerator = "You are an expert prompt engineer."
	sysJudge     = "Respond with only a float."
	sysCritic    = "Be a constructive prompt critic."
	sysLoop      = "Improve this prompt based on feedback."
	sysDirect    = "Improve this prompt with the given context."
)

// fakeLLM answers by system prompt and records user prompts. Safe for
// concurrent use by the batch command.
type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string
	echoTask  bool
	users     map[string][]string
}

func (f *fakeLLM) Generate(_ context.Context, system, user string) (promptcraft.LLMResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.users == nil {
		f.users = map[string][]string{}
	}
	f.users[system] = append(f.users[system], user)
	if f.echoTask && system == sysGenerator {
		return promptcraft.LLMResponse{Text: "PROMPT FOR " + user, Cost: 0.001}, nil
	}
	r, ok := f.responses[system]
	if !ok {
		return promptcraft.LLMResponse{}, fmt.Errorf("unexpected system prompt %q", system)
	}
	return promptcraft.LLMResponse{Text: r, Cost: 0.001}, nil
}

func (f *fakeLLM) calls(system string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.users[system]...)
}

func newTestApp(t *testing.T, provider promptcraft.LLMProvider) (*app, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	return &app{
		stdin:  strings.NewReader(""),
		stdout: out,
		stderr: &bytes.Buffer{},
		logger: zaptest.NewLogger(t),
		loadConfig: func(string) (config.Config, error) {
			cfg := config.Default()
			cfg.LLM.Provider = config.ProviderOllama
			return cfg, nil
		},
		newProvider: func(context.Context, config.LLMConfig) (promptcraft.LLMProvider, error) {
			return provider, nil
		},
	}, out
}

func execute(a *app, args ...string) error {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestGenerateCommand(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{
		sysGenerator: "Compose a haiku about autumn leaves.",
		sysJudge:     "0.9",
	}}
	a, out := newTestApp(t, llm)

	require.NoError(t, execute(a, "generate", "--show-score", "write", "a", "haiku"))

	got := out.String()
	assert.Contains(t, got, "Template Used:\nGiven the following task, create a useful prompt: write a haiku\n")
	assert.Contains(t, got, "\nFinal Prompt:\nCompose a haiku about autumn leaves.\n")
	assert.Contains(t, got, "Score: 0.90")
	assert.Contains(t, got, "Cycles: 0")
}

func TestGenerateBestEffort(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{
		sysGenerator: "draft",
		sysJudge:     "0.3",
		sysCritic:    "Name the audience.",
		sysLoop:      "revised draft",
	}}
	a, out := newTestApp(t, llm)

	require.NoError(t, execute(a, "generate", "--show-score", "plan a sprint"))

	got := out.String()
	assert.Contains(t, got, "Final Prompt:\nrevised draft\n")
	assert.Contains(t, got, "Cycles: 3")
	assert.Contains(t, got, "best effort")
	assert.Contains(t, got, "Last Feedback:\nName the audience.\n")
	assert.Len(t, llm.calls(sysLoop), 3)
}

func TestGenerateWithPattern(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{sysGenerator: "p", sysJudge: "1.0"}}
	a, _ := newTestApp(t, llm)

	require.NoError(t, execute(a, "generate", "--pattern", "Persona", "review my essay"))
	require.Len(t, llm.calls(sysGenerator), 1)
	assert.Contains(t, strings.ToLower(llm.calls(sysGenerator)[0]), "persona")
}

func TestGenerateRequiresTask(t *testing.T) {
	a, _ := newTestApp(t, &fakeLLM{})
	err := execute(a, "generate", "  ")
	assert.ErrorIs(t, err, promptcraft.ErrEmptyTask)
}

func TestImproveRequiresPromptAndContext(t *testing.T) {
	llm := &fakeLLM{}
	a, _ := newTestApp(t, llm)

	assert.ErrorIs(t, execute(a, "improve", "Explain our VPN"), errImproveInput)
	assert.ErrorIs(t, execute(a, "improve", "--context", "new hires"), errImproveInput)
	assert.Empty(t, llm.calls(sysDirect))
}

func TestImproveWithContextURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Audience: engineers on their first week"))
	}))
	defer srv.Close()

	llm := &fakeLLM{responses: map[string]string{sysDirect: "Explain, step by step, how a new engineer connects to the VPN."}}
	a, out := newTestApp(t, llm)

	require.NoError(t, execute(a, "improve", "--context", "be brief", "--context-url", srv.URL, "Explain our VPN"))

	assert.Equal(t, "Improved Prompt:\nExplain, step by step, how a new engineer connects to the VPN.\n", out.String())
	calls := llm.calls(sysDirect)
	require.Len(t, calls, 1)
	assert.Equal(t, "Prompt: Explain our VPN\nContext: be brief\n\nAudience: engineers on their first week", calls[0])
}

func TestInvalidConfigStopsStartup(t *testing.T) {
	a, _ := newTestApp(t, &fakeLLM{})
	a.loadConfig = func(string) (config.Config, error) {
		cfg := config.Default()
		cfg.LLM.APIKey = ""
		return cfg, nil
	}
	err := execute(a, "generate", "anything")
	assert.ErrorIs(t, err, config.ErrMissingCredential)
}

func TestProviderConstructionError(t *testing.T) {
	a, _ := newTestApp(t, nil)
	a.newProvider = func(context.Context, config.LLMConfig) (promptcraft.LLMProvider, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	err := execute(a, "generate", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create ollama client")
}

func TestPatternsSkipsConfig(t *testing.T) {
	a, out := newTestApp(t, nil)
	a.loadConfig = func(string) (config.Config, error) {
		return config.Config{}, errors.New("should not be called")
	}
	require.NoError(t, execute(a, "patterns"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "persona"))
	assert.True(t, strings.HasPrefix(lines[6], "None"))
}

func TestBatchJSON(t *testing.T) {
	llm := &fakeLLM{echoTask: true, responses: map[string]string{sysJudge: "0.8"}}
	a, out := newTestApp(t, llm)

	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("# weekly\nsummarize sales calls\n\ndraft a cover letter\nplan a sprint\n"), 0o600))

	require.NoError(t, execute(a, "batch", "-j", "2", "--format", "json", path))

	dec := json.NewDecoder(strings.NewReader(out.String()))
	var got []batchRecord
	for dec.More() {
		var r batchRecord
		require.NoError(t, dec.Decode(&r))
		got = append(got, r)
	}
	require.Len(t, got, 3)
	for i, task := range []string{"summarize sales calls", "draft a cover letter", "plan a sprint"} {
		assert.Equal(t, task, got[i].Task)
		assert.Contains(t, got[i].Prompt, task)
		assert.InDelta(t, 0.8, got[i].Score, 1e-9)
		assert.NotEmpty(t, got[i].ID)
	}
}

func TestBatchFailureCancels(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{sysGenerator: "p"}} // no judge answer
	a, _ := newTestApp(t, llm)
	a.stdin = strings.NewReader("one\ntwo\n")

	err := execute(a, "batch", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluator")
}

func TestBatchRejectsEmptyFile(t *testing.T) {
	a, _ := newTestApp(t, &fakeLLM{})
	a.stdin = strings.NewReader("\n# nothing\n")
	assert.Error(t, execute(a, "batch", "-"))
}

func TestUnboundedCyclesFromConfig(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{sysGenerator: "p", sysJudge: "0.95"}}
	a, _ := newTestApp(t, llm)
	a.cfg = config.Default()
	a.cfg.Graph.MaxCycles = -1

	c, err := a.crafter(context.Background())
	require.NoError(t, err)
	res, err := c.Generate(context.Background(), "t", "")
	require.NoError(t, err)
	assert.False(t, res.BestEffort)
}

func TestFormatResult(t *testing.T) {
	res := promptcraft.Result{State: promptcraft.State{Mode: promptcraft.ModeImprove}}
	assert.Equal(t, "Improved Prompt:\n<None>\n", formatResult(res, formatOptions{}))

	res = promptcraft.Result{
		Cycles:     3,
		BestEffort: true,
		State: promptcraft.State{
			Mode:         promptcraft.ModeGenerate,
			BaseTemplate: "tmpl",
			Score:        0.4,
			Feedback:     "too vague",
		},
	}
	got := formatResult(res, formatOptions{showScore: true, markdown: true})
	assert.Contains(t, got, "### Template Used\n\ntmpl\n")
	assert.Contains(t, got, "### Final Prompt\n\n<None>\n")
	assert.Contains(t, got, "best effort")
	assert.Contains(t, got, "### Last Feedback\n\ntoo vague\n")
}

func toolText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestMCPTools(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{
		sysGenerator: "Act as a travel agent and plan a trip.",
		sysJudge:     "0.85",
		sysDirect:    "Rewritten prompt",
	}}
	tools := mcpTools{crafter: promptcraft.New(promptcraft.WithModel(llm)), logger: zaptest.NewLogger(t)}
	require.NotNil(t, newMCPServer(tools.crafter, tools.logger))

	req := mcp.CallToolRequest{}
	req.Params.Name = "generate_prompt"
	req.Params.Arguments = map[string]any{"task": "plan a trip", "pattern": "persona"}
	res, err := tools.generate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, toolText(t, res), "Final Prompt:\nAct as a travel agent and plan a trip.")

	req = mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"prompt": "p", "context": "c"}
	res, err = tools.improve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Rewritten prompt", toolText(t, res))

	req = mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"prompt": "p"}
	res, err = tools.improve(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	req = mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}
	res, err = tools.generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tools.listPatterns(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Contains(t, toolText(t, res), "n-shot: ")
	assert.Contains(t, toolText(t, res), "None: no pattern")
}

func enter(t *testing.T, m chatModel, line string) (chatModel, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(chatModel), cmd
}

func lastEntry(m chatModel) transcript.Entry {
	entries := m.history.Entries()
	return entries[len(entries)-1]
}

// drain runs a batch command and returns the first chat message it yields.
func drain(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return msg
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case chatResultMsg, chatErrMsg:
			return m
		}
	}
	t.Fatal("no chat result in batch")
	return nil
}

func TestChatImproveFlow(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{sysDirect: "Explain the VPN to a new hire in three steps."}}
	m := newChatModel(context.Background(), promptcraft.New(promptcraft.WithModel(llm)), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(chatModel)
	assert.Contains(t, m.View(), "mode: generate")

	m, _ = enter(t, m, "/mode improve")
	assert.Equal(t, promptcraft.ModeImprove, m.mode)

	m, cmd := enter(t, m, "Explain our VPN")
	assert.Nil(t, cmd)
	assert.Contains(t, lastEntry(m).Text, "Please enter both a prompt and context")

	m, _ = enter(t, m, "/context new hires, non-technical")
	assert.Equal(t, "new hires, non-technical", m.context)

	m, cmd = enter(t, m, "Explain our VPN")
	assert.True(t, m.busy)
	next, _ = m.Update(drain(t, cmd))
	m = next.(chatModel)

	assert.False(t, m.busy)
	last := lastEntry(m)
	assert.Equal(t, transcript.RoleAssistant, last.Role)
	assert.Contains(t, last.Text, "### Improved Prompt\n\nExplain the VPN to a new hire in three steps.")
}

func TestChatGenerateWithPattern(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{sysGenerator: "p", sysJudge: "0.9"}}
	m := newChatModel(context.Background(), promptcraft.New(promptcraft.WithModel(llm)), nil)

	m, _ = enter(t, m, "/pattern Flipped")
	assert.Equal(t, "flipped", m.pattern)
	m, _ = enter(t, m, "/pattern nonsense")
	assert.Equal(t, "flipped", m.pattern)
	assert.Contains(t, lastEntry(m).Text, "Unknown pattern")

	m, cmd := enter(t, m, "plan a team offsite")
	msg := drain(t, cmd)
	res, ok := msg.(chatResultMsg)
	require.True(t, ok)
	assert.True(t, res.res.State.UsePattern)
	assert.Equal(t, "flipped", res.res.State.SelectedPattern)
	next, _ := m.Update(msg)
	m = next.(chatModel)

	m, _ = enter(t, m, "/mode chaos")
	assert.Equal(t, promptcraft.ModeGenerate, m.mode)
	assert.Contains(t, lastEntry(m).Text, "Unknown mode")
}

func TestChatReportsErrors(t *testing.T) {
	m := newChatModel(context.Background(), promptcraft.New(promptcraft.WithModel(&fakeLLM{})), nil)
	m, cmd := enter(t, m, "anything")
	next, _ := m.Update(drain(t, cmd))
	m = next.(chatModel)
	assert.Equal(t, transcript.RoleSystem, lastEntry(m).Role)
	assert.True(t, strings.HasPrefix(lastEntry(m).Text, "Error: generator:"))
}
