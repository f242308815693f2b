// Package mcptools exposes the study tracker to MCP assistants over the
// same services the CLI uses.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rabbishuki/rambam-sub001/internal/domain"
	"github.com/rabbishuki/rambam-sub001/internal/service"
)

// RegisterReadTools adds the read-only study tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, study service.StudyService, stats service.StatsService) {
	s.AddTool(todayTool(), todayHandler(study))
	s.AddTool(dayCardTool(), dayCardHandler(study))
	s.AddTool(overviewTool(), overviewHandler(stats))
}

// RegisterWriteTools adds the mutating study tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, study service.StudyService) {
	s.AddTool(markDoneTool(), markDoneHandler(study))
}

// --- today ---

func todayTool() mcp.Tool {
	return mcp.NewTool("today",
		mcp.WithDescription("Return the current study day (YYYY-MM-DD) under the configured day boundary."),
	)
}

func todayHandler(study service.StudyService) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(string(study.Today(ctx))), nil
	}
}

// --- day_card ---

func dayCardTool() mcp.Tool {
	return mcp.NewTool("day_card",
		mcp.WithDescription("Return one track's portion and completion state for a day."),
		mcp.WithString("path",
			mcp.Description("Study track: rambam3, rambam1, or mitzvot"),
			mcp.Required(),
		),
		mcp.WithString("day",
			mcp.Description("Date (YYYY-MM-DD). Omit for today."),
		),
	)
}

func dayCardHandler(study service.StudyService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, day, err := parseTarget(ctx, study, req)
		if err != nil {
			return toolError(err)
		}
		card, err := study.DayCard(ctx, path, day)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(renderCard(card)), nil
	}
}

func renderCard(card *service.DayCard) string {
	var sb strings.Builder
	meta := card.Schedule
	fmt.Fprintf(&sb, "%s %s\n", meta.Path, meta.Day)
	if !meta.Display.Empty() {
		fmt.Fprintf(&sb, "portion: %s\n", meta.Display.Display(domain.LangEnglish))
	}
	if !meta.HebrewDate.Empty() {
		fmt.Fprintf(&sb, "hebrew date: %s\n", meta.HebrewDate.Display(domain.LangEnglish))
	}
	for _, ref := range meta.Refs {
		fmt.Fprintf(&sb, "ref: %s\n", ref.Ref)
	}
	fmt.Fprintf(&sb, "progress: %d/%d", card.Progress.Done, meta.ItemCount)
	if card.Complete {
		sb.WriteString(" (complete)")
	}
	sb.WriteString("\ndone items:")
	any := false
	for i, done := range card.Done {
		if done {
			fmt.Fprintf(&sb, " %d", i+1)
			any = true
		}
	}
	if !any {
		sb.WriteString(" none")
	}
	sb.WriteString("\n")
	return sb.String()
}

// --- progress_overview ---

func overviewTool() mcp.Tool {
	return mcp.NewTool("progress_overview",
		mcp.WithDescription("Return per-track progress: today's count, streak, and backlog."),
	)
}

func overviewHandler(stats service.StatsService) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := stats.Overview(ctx)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "today: %s (%s)\n", out.Today, out.TodayState)
		for _, p := range out.Paths {
			fmt.Fprintf(&sb, "%s: today %d/%d, streak %d, backlog %d, total %d\n",
				p.Path, p.Today.Done, p.Today.Total, p.Streak, p.BacklogDays, p.TotalDone)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- mark_done ---

func markDoneTool() mcp.Tool {
	return mcp.NewTool("mark_done",
		mcp.WithDescription("Mark a study item done, or a whole day when no item is given. Single-item semantics: earlier items are never touched."),
		mcp.WithString("path",
			mcp.Description("Study track: rambam3, rambam1, or mitzvot"),
			mcp.Required(),
		),
		mcp.WithString("day",
			mcp.Description("Date (YYYY-MM-DD). Omit for today."),
		),
		mcp.WithNumber("item",
			mcp.Description("1-based item number. Omit to mark the whole day complete."),
		),
	)
}

func markDoneHandler(study service.StudyService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, day, err := parseTarget(ctx, study, req)
		if err != nil {
			return toolError(err)
		}

		item := req.GetInt("item", 0)
		if item == 0 {
			if err := study.MarkDayComplete(ctx, path, day); err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(fmt.Sprintf("%s %s marked complete", path, day)), nil
		}
		if item < 1 {
			return toolError(fmt.Errorf("item must be a positive 1-based number"))
		}
		if err := study.MarkItem(ctx, path, day, item-1); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s %s item %d marked", path, day, item)), nil
	}
}

// --- helpers ---

func parseTarget(ctx context.Context, study service.StudyService, req mcp.CallToolRequest) (domain.StudyPath, domain.DayKey, error) {
	raw := req.GetString("path", "")
	if !domain.ValidStudyPaths[raw] {
		return "", "", fmt.Errorf("unknown path %q (expected rambam3, rambam1, or mitzvot)", raw)
	}
	path := domain.StudyPath(raw)

	dayRaw := req.GetString("day", "")
	if dayRaw == "" {
		return path, study.Today(ctx), nil
	}
	day, err := domain.ParseDayKey(dayRaw)
	if err != nil {
		return "", "", err
	}
	return path, day, nil
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
