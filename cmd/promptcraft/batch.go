package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smhanov/promptcraft"
)

type batchRecord struct {
	ID         string  `json:"id"`
	Task       string  `json:"task"`
	Template   string  `json:"template"`
	Prompt     string  `json:"prompt"`
	Score      float64 `json:"score"`
	Cycles     int     `json:"cycles"`
	BestEffort bool    `json:"best_effort"`
	Cost       float64 `json:"cost"`
}

func (a *app) batchCmd() *cobra.Command {
	var (
		patternName string
		concurrency int
		format      string
	)
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Generate prompts for every task in a file",
		Long: `Reads one task description per line ("-" reads stdin; blank lines and
lines starting with # are skipped) and generates a prompt for each, running
several requests at once. The first failure cancels the rest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
			tasks, err := a.readTasks(args[0])
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				return fmt.Errorf("%s: no tasks", args[0])
			}
			a.warnUnknownPattern(patternName)

			c, err := a.crafter(cmd.Context())
			if err != nil {
				return err
			}

			results := make([]promptcraft.Result, len(tasks))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(concurrency, 1))
			for i, task := range tasks {
				g.Go(func() error {
					res, err := c.Generate(ctx, task, patternName)
					if err != nil {
						return fmt.Errorf("task %d %q: %w", i+1, task, err)
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			var total float64
			for _, r := range results {
				total += r.Cost
			}
			a.logger.Info("batch finished", zap.Int("tasks", len(tasks)), zap.Float64("cost", total))
			return writeBatch(cmd.OutOrStdout(), format, tasks, results)
		},
	}
	cmd.Flags().StringVarP(&patternName, "pattern", "p", "", "prompt pattern applied to every task")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "number of requests in flight")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json (one object per line)")
	return cmd
}

func (a *app) readTasks(path string) ([]string, error) {
	var r io.Reader = a.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var tasks []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tasks = append(tasks, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return tasks, nil
}

func writeBatch(w io.Writer, format string, tasks []string, results []promptcraft.Result) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		for i, r := range results {
			if err := enc.Encode(batchRecord{
				ID:         r.ID,
				Task:       tasks[i],
				Template:   r.State.BaseTemplate,
				Prompt:     r.State.Prompt,
				Score:      r.State.Score,
				Cycles:     r.Cycles,
				BestEffort: r.BestEffort,
				Cost:       r.Cost,
			}); err != nil {
				return err
			}
		}
		return nil
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== Task %d: %s\n", i+1, tasks[i])
		if _, err := io.WriteString(w, formatResult(r, formatOptions{})); err != nil {
			return err
		}
	}
	return nil
}
