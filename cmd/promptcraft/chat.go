package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/smhanov/promptcraft"
	"github.com/smhanov/promptcraft/internal/transcript"
	"github.com/smhanov/promptcraft/pattern"
)

const chatHelp = `Commands:
  /mode generate|improve   switch between generating and improving prompts
  /pattern NAME|None       choose the pattern used for generation
  /context TEXT            set the context used for improvement (empty clears)
  /score                   toggle score display
  /clear                   clear the conversation
  /quit                    leave`

func (a *app) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "chat",
		Short:       "Interactive prompt crafting session",
		Annotations: map[string]string{"logger": "nop"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.crafter(cmd.Context())
			if err != nil {
				return err
			}
			r, _ := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
			m := newChatModel(cmd.Context(), c, r)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		},
	}
}

type chatStyles struct {
	title  lipgloss.Style
	status lipgloss.Style
	hint   lipgloss.Style
}

func defaultChatStyles() chatStyles {
	return chatStyles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("#A49FA5")),
		hint:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true),
	}
}

type (
	chatResultMsg struct{ res promptcraft.Result }
	chatErrMsg    struct{ err error }
)

// chatModel is the bubbletea model of the chat command.
type chatModel struct {
	ctx      context.Context
	crafter  *promptcraft.Crafter
	history  *transcript.Transcript
	renderer *glamour.TermRenderer
	styles   chatStyles

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	mode      promptcraft.Mode
	pattern   string
	context   string
	showScore bool

	busy   bool
	ready  bool
	width  int
	height int
}

func newChatModel(ctx context.Context, c *promptcraft.Crafter, r *glamour.TermRenderer) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Describe a task... (Enter to send, /help for commands, Ctrl+C to exit)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 8192
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := chatModel{
		ctx:      ctx,
		crafter:  c,
		history:  transcript.New(),
		renderer: r,
		styles:   defaultChatStyles(),
		input:    ta,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		mode:     promptcraft.ModeGenerate,
		pattern:  pattern.None,
	}
	m.history.Append(transcript.RoleSystem, "Welcome to promptcraft. Type a task description to generate a prompt.\n\n"+chatHelp)
	m.refresh()
	return m
}

func (m chatModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(msg.Width)
		vh := msg.Height - m.input.Height() - 3
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			return m.submit(text)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case chatResultMsg:
		m.busy = false
		m.history.Append(transcript.RoleAssistant, formatResult(msg.res, formatOptions{showScore: m.showScore, markdown: true}))
		m.refresh()
		return m, nil

	case chatErrMsg:
		m.busy = false
		m.history.Append(transcript.RoleSystem, "Error: "+msg.err.Error())
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles a line typed by the user.
func (m chatModel) submit(text string) (tea.Model, tea.Cmd) {
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		return m.command(text)
	}

	m.history.Append(transcript.RoleUser, text)
	var req promptcraft.Request
	switch m.mode {
	case promptcraft.ModeImprove:
		if strings.TrimSpace(m.context) == "" {
			m.history.Append(transcript.RoleSystem, "Please enter both a prompt and context. Set the context with /context first.")
			m.refresh()
			return m, nil
		}
		req = promptcraft.Request{Mode: promptcraft.ModeImprove, Prompt: text, Context: m.context}
	default:
		req = promptcraft.Request{
			Mode:            promptcraft.ModeGenerate,
			TaskDescription: text,
			UsePattern:      m.pattern != pattern.None,
			SelectedPattern: m.pattern,
		}
	}
	m.busy = true
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.run(req))
}

func (m chatModel) run(req promptcraft.Request) tea.Cmd {
	ctx, c := m.ctx, m.crafter
	return func() tea.Msg {
		res, err := c.Run(ctx, req)
		if err != nil {
			return chatErrMsg{err: err}
		}
		return chatResultMsg{res: res}
	}
}

func (m chatModel) command(text string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	var reply string
	switch strings.ToLower(name) {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/help":
		reply = chatHelp
	case "/clear":
		m.history.Reset()
		reply = "Conversation cleared."
	case "/mode":
		mode, err := promptcraft.ParseMode(strings.ToLower(arg))
		if err != nil {
			reply = fmt.Sprintf("Unknown mode %q. Use /mode generate or /mode improve.", arg)
			break
		}
		m.mode = mode
		reply = "Mode: " + string(mode)
		if mode == promptcraft.ModeImprove && m.context == "" {
			reply += ". Set the improvement context with /context."
		}
	case "/pattern":
		switch {
		case arg == "" || strings.EqualFold(arg, pattern.None):
			m.pattern = pattern.None
			reply = "Pattern: None"
		default:
			p, ok := pattern.Lookup(arg)
			if !ok {
				reply = fmt.Sprintf("Unknown pattern %q. Choose one of: %s, None.", arg, strings.Join(pattern.Names(), ", "))
				break
			}
			m.pattern = p.Name
			reply = "Pattern: " + p.Name
		}
	case "/context":
		m.context = arg
		if arg == "" {
			reply = "Context cleared."
		} else {
			reply = "Context set."
		}
	case "/score":
		m.showScore = !m.showScore
		reply = fmt.Sprintf("Score display: %t", m.showScore)
	default:
		reply = fmt.Sprintf("Unknown command %s. Type /help.", name)
	}
	m.history.Append(transcript.RoleSystem, reply)
	m.refresh()
	return m, nil
}

// refresh re-renders the transcript into the viewport.
func (m *chatModel) refresh() {
	md := m.history.Markdown()
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			md = out
		}
	}
	m.viewport.SetContent(md)
	m.viewport.GotoBottom()
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	status := fmt.Sprintf("mode: %s  pattern: %s", m.mode, m.pattern)
	if m.mode == promptcraft.ModeImprove {
		status += "  context: " + contextSummary(m.context)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, m.styles.title.Render("promptcraft"), " ", m.styles.status.Render(status))

	footer := m.styles.hint.Render("PgUp/PgDn scroll · /help")
	if m.busy {
		footer = m.spinner.View() + " crafting..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer, m.input.View())
}

func contextSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "<None>"
	}
	if len(s) > 30 {
		return s[:30] + "..."
	}
	return s
}
