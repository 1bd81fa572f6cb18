package main

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smhanov/promptcraft"
	"github.com/smhanov/promptcraft/pattern"
)

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the prompt tools over MCP on stdio",
		Long: `Runs a Model Context Protocol server on stdin/stdout exposing the tools
generate_prompt, improve_prompt and list_patterns. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.crafter(cmd.Context())
			if err != nil {
				return err
			}
			stdio := server.NewStdioServer(newMCPServer(c, a.logger))
			stdio.SetErrorLogger(zap.NewStdLog(a.logger))
			a.logger.Info("mcp server listening on stdio")
			return stdio.Listen(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newMCPServer(c *promptcraft.Crafter, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer("promptcraft", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	t := mcpTools{crafter: c, logger: logger}

	s.AddTool(
		mcp.NewTool("generate_prompt",
			mcp.WithDescription("Generate an LLM prompt for a task description. The prompt is scored and refined until it passes a quality threshold."),
			mcp.WithString("task",
				mcp.Required(),
				mcp.Description("What the prompt should get a model to do"),
			),
			mcp.WithString("pattern",
				mcp.Description("Optional prompt pattern"),
				mcp.Enum(append(pattern.Names(), pattern.None)...),
			),
		),
		t.generate,
	)
	s.AddTool(
		mcp.NewTool("improve_prompt",
			mcp.WithDescription("Rewrite an existing prompt for the given context."),
			mcp.WithString("prompt",
				mcp.Required(),
				mcp.Description("The prompt to improve"),
			),
			mcp.WithString("context",
				mcp.Required(),
				mcp.Description("Audience, constraints or background the prompt should account for"),
			),
		),
		t.improve,
	)
	s.AddTool(
		mcp.NewTool("list_patterns",
			mcp.WithDescription("List the prompt patterns accepted by generate_prompt."),
		),
		t.listPatterns,
	)
	return s
}

type mcpTools struct {
	crafter *promptcraft.Crafter
	logger  *zap.Logger
}

func (t mcpTools) generate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := req.RequireString("task")
	if err != nil || strings.TrimSpace(task) == "" {
		return mcp.NewToolResultError("task is required"), nil
	}
	res, err := t.crafter.Generate(ctx, task, req.GetString("pattern", ""))
	if err != nil {
		t.logger.Warn("generate_prompt failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatResult(res, formatOptions{showScore: true})), nil
}

func (t mcpTools) improve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := strings.TrimSpace(req.GetString("prompt", ""))
	improveContext := strings.TrimSpace(req.GetString("context", ""))
	if prompt == "" || improveContext == "" {
		return mcp.NewToolResultError(errImproveInput.Error()), nil
	}
	res, err := t.crafter.Improve(ctx, prompt, improveContext)
	if err != nil {
		t.logger.Warn("improve_prompt failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(promptcraft.OrNone(res.State.ImprovedPrompt)), nil
}

func (t mcpTools) listPatterns(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, p := range pattern.All() {
		b.WriteString(p.Name + ": " + p.Description + "\n")
	}
	b.WriteString(pattern.None + ": no pattern\n")
	return mcp.NewToolResultText(b.String()), nil
}
