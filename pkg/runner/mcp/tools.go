package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/dumpdash/pkg/dump"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerDashboardTool(srv, svc)
	registerGetDumpTool(srv, svc)
	registerSearchTool(srv, svc)
	registerApproveTool(srv, svc)
	registerRejectTool(srv, svc)
	registerRemindersTool(srv, svc)
}

func registerDashboardTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"dashboard",
		mcp.WithDescription("List dumps grouped into time buckets: overdue, today, tomorrow, nextWeek, nextMonth, later."),
		mcp.WithString("bucket",
			mcp.Description("Only return this bucket."),
			mcp.Enum("overdue", "today", "tomorrow", "nextWeek", "nextMonth", "later"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		only, _ := request.GetArguments()["bucket"].(string)
		dto, err := svc.Dashboard(ctx, only)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerGetDumpTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_dump",
		mcp.WithDescription("Fetch one dump with its extracted entities and bucket."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Dump identifier."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Dump(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSearchTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_dumps",
		mcp.WithDescription("Natural-language search across dumps with optional facet filters."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What to look for."),
		),
		mcp.WithString("categories",
			mcp.Description("Comma-separated categories to filter by."),
		),
		mcp.WithString("urgency",
			mcp.Description("Comma-separated urgency levels: low, medium, high, critical."),
		),
		mcp.WithString("content_types",
			mcp.Description("Comma-separated content types to filter by."),
		),
		mcp.WithString("date_from",
			mcp.Description("Earliest capture date, YYYY-MM-DD."),
		),
		mcp.WithString("date_to",
			mcp.Description("Latest capture date, YYYY-MM-DD."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 20)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args := request.GetArguments()
		req := dump.SearchRequest{Query: query, Limit: 20}
		if v, ok := args["limit"].(float64); ok && v > 0 {
			req.Limit = int(v)
		}
		req.Filters.Categories = splitList(args["categories"])
		req.Filters.ContentTypes = splitList(args["content_types"])
		for _, u := range splitList(args["urgency"]) {
			level := dump.ParseUrgency(u)
			if level == dump.UrgencyUnknown {
				return mcp.NewToolResultError(fmt.Sprintf("unknown urgency %q", u)), nil
			}
			req.Filters.Urgency = append(req.Filters.Urgency, level)
		}
		req.Filters.DateFrom, _ = args["date_from"].(string)
		req.Filters.DateTo, _ = args["date_to"].(string)

		resp, err := svc.Search(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(resp)
	})
}

func registerApproveTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"approve_dump",
		mcp.WithDescription("Approve an AI-flagged dump."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Dump identifier to approve."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Approve(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !dto.Success {
			return mcp.NewToolResultError(dto.Message), nil
		}
		return toJSONResult(dto)
	})
}

func registerRejectTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"reject_dump",
		mcp.WithDescription("Reject an AI-flagged dump with a reason."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Dump identifier to reject."),
		),
		mcp.WithString("reason",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("Why the dump is rejected, at least %d characters.", dump.MinRejectReason)),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		reason, err := request.RequireString("reason")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Reject(ctx, id, reason)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !dto.Success {
			return mcp.NewToolResultError(dto.Message), nil
		}
		return toJSONResult(dto)
	})
}

func registerRemindersTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_reminders",
		mcp.WithDescription("List upcoming reminders, soonest first."),
		mcp.WithString("within",
			mcp.Description("Look-ahead window such as 1d, 1w, 2w3d or all (default 1w)."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		within, _ := request.GetArguments()["within"].(string)
		list, err := svc.Reminders(ctx, within)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"reminders": list,
			"count":     len(list),
		})
	})
}

func splitList(v any) []string {
	s, _ := v.(string)
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
