package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/smhanov/promptcraft"
)

type formatOptions struct {
	showScore bool
	markdown  bool
}

// formatResult shows the template and final prompt of a generate result, or
// the improved prompt of an improve result.
func formatResult(res promptcraft.Result, opts formatOptions) string {
	var b strings.Builder
	section := func(title, body string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if opts.markdown {
			fmt.Fprintf(&b, "### %s\n\n%s\n", title, body)
		} else {
			fmt.Fprintf(&b, "%s:\n%s\n", title, body)
		}
	}

	s := res.State
	switch s.Mode {
	case promptcraft.ModeImprove:
		section("Improved Prompt", promptcraft.OrNone(s.ImprovedPrompt))
	default:
		section("Template Used", promptcraft.OrNone(s.BaseTemplate))
		section("Final Prompt", promptcraft.OrNone(s.Prompt))
	}

	if opts.showScore && s.Mode != promptcraft.ModeImprove {
		lines := []string{fmt.Sprintf("Score: %.2f", s.Score), fmt.Sprintf("Cycles: %d", res.Cycles)}
		if res.BestEffort {
			lines = append(lines, "Stopped at the cycle cap; the prompt is a best effort.")
		}
		if res.Cost > 0 {
			lines = append(lines, fmt.Sprintf("Cost: $%.6f", res.Cost))
		}
		sep := "\n"
		if opts.markdown {
			sep = "  \n"
		}
		section("Evaluation", strings.Join(lines, sep))
		if s.Feedback != "" {
			section("Last Feedback", s.Feedback)
		}
	}
	return b.String()
}

// printer writes results as rendered markdown on a terminal and as plain
// text otherwise.
type printer struct {
	w  io.Writer
	md *glamour.TermRenderer
}

func newPrinter(w io.Writer) *printer {
	p := &printer{w: w}
	if isTerminal(w) {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			p.md = r
		}
	}
	return p
}

func (p *printer) result(res promptcraft.Result, showScore bool) error {
	if p.md != nil {
		out, err := p.md.Render(formatResult(res, formatOptions{showScore: showScore, markdown: true}))
		if err == nil {
			_, err = io.WriteString(p.w, out)
			return err
		}
	}
	_, err := io.WriteString(p.w, formatResult(res, formatOptions{showScore: showScore}))
	return err
}
