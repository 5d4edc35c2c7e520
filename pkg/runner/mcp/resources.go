package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerDashboardResource(srv, svc)
	registerDumpTemplate(srv, svc)
}

func registerDashboardResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"dumpdash://dashboard",
		"Dashboard",
		mcp.WithResourceDescription("All dumps grouped into time buckets with summary counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.Dashboard(ctx, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerDumpTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"dumpdash://dumps/{id}",
		"Dump Details",
		mcp.WithTemplateDescription("Detailed information about a single dump."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("dump id is required")
		}
		dto, err := svc.Dump(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"dump": dto})
	})
}

// templateArg reads a URI template variable, which may arrive as a string or
// a single-element list.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
