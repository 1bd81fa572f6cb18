package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smhanov/promptcraft"
	"github.com/smhanov/promptcraft/fetch"
	"github.com/smhanov/promptcraft/pattern"
)

var errImproveInput = errors.New("please enter both a prompt and context")

func (a *app) generateCmd() *cobra.Command {
	var (
		patternName string
		showScore   bool
	)
	cmd := &cobra.Command{
		Use:   "generate [task description]",
		Short: "Generate a prompt from a task description",
		Long: `Builds a base template from the task (optionally through a prompt
pattern), asks the model for a prompt, then scores, critiques and rewrites it
until the judge is satisfied or the cycle cap is reached.

Example:
  promptcraft generate --pattern persona "summarize weekly sales calls"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			task := strings.TrimSpace(strings.Join(args, " "))
			if task == "" {
				return fmt.Errorf("please enter a task description: %w", promptcraft.ErrEmptyTask)
			}
			a.warnUnknownPattern(patternName)

			c, err := a.crafter(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.Generate(cmd.Context(), task, patternName)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).result(res, showScore)
		},
	}
	cmd.Flags().StringVarP(&patternName, "pattern", "p", "", "prompt pattern ("+strings.Join(pattern.Names(), ", ")+" or None)")
	cmd.Flags().BoolVar(&showScore, "show-score", false, "print the judge score and last feedback")
	return cmd
}

func (a *app) improveCmd() *cobra.Command {
	var (
		improveContext string
		contextURL     string
	)
	cmd := &cobra.Command{
		Use:   "improve [prompt]",
		Short: "Rewrite an existing prompt for a given context",
		Long: `Rewrites a prompt in one pass using the supplied context. The context
can be given inline, fetched from a URL, or both.

Example:
  promptcraft improve --context "audience: new hires" "Explain our VPN setup"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			ctxText := strings.TrimSpace(improveContext)

			if contextURL != "" {
				doc, err := fetch.NewHTTP().Fetch(cmd.Context(), contextURL)
				if err != nil {
					return err
				}
				a.logger.Debug("fetched improvement context",
					zap.String("url", doc.URL),
					zap.Int("bytes", len(doc.Text)),
					zap.Bool("truncated", doc.Truncated))
				ctxText = strings.TrimSpace(strings.Join([]string{ctxText, doc.Context()}, "\n\n"))
			}
			if prompt == "" || ctxText == "" {
				return errImproveInput
			}

			c, err := a.crafter(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.Improve(cmd.Context(), prompt, ctxText)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).result(res, false)
		},
	}
	cmd.Flags().StringVar(&improveContext, "context", "", "context the prompt should be improved for")
	cmd.Flags().StringVar(&contextURL, "context-url", "", "fetch improvement context from a web page")
	return cmd
}

// warnUnknownPattern logs pattern names that will fall back to the default
// instruction. Pattern selection is advisory, so this is not an error.
func (a *app) warnUnknownPattern(name string) {
	if strings.TrimSpace(name) == "" || strings.EqualFold(strings.TrimSpace(name), pattern.None) {
		return
	}
	if _, ok := pattern.Lookup(name); !ok {
		a.logger.Warn("unknown pattern, using the default instruction",
			zap.String("pattern", name),
			zap.Strings("known", pattern.Names()))
	}
}

func (a *app) patternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "patterns",
		Short:       "List the prompt patterns",
		Annotations: map[string]string{skipConfig: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, p := range pattern.All() {
				fmt.Fprintf(w, "%-12s %s\n", p.Name, p.Description)
			}
			fmt.Fprintf(w, "%-12s %s\n", pattern.None, "No pattern; use the default instruction")
			return nil
		},
	}
}
