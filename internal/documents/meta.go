package documents

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"erpnext-mcp/pkg/erpnext"
	"erpnext-mcp/pkg/params"
	"erpnext-mcp/pkg/result"
)

func (t *DocumentTools) ListDoctypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filters := map[string]any{}
	if module := req.GetString("module", ""); module != "" {
		filters["module"] = module
	}
	if submittable := params.OptionalBool(req.GetArguments(), "is_submittable"); submittable != nil {
		v := 0
		if *submittable {
			v = 1
		}
		filters["is_submittable"] = v
	}

	opts := erpnext.ListOptions{
		Fields:          []string{"name"},
		OrderBy:         "name asc",
		LimitPageLength: req.GetInt("limit", 100),
	}
	if len(filters) > 0 {
		opts.Filters = filters
	}

	docs, err := t.client.GetList(ctx, "DocType", opts)
	if err != nil {
		return result.Error(err), nil
	}

	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		if name, ok := doc["name"].(string); ok {
			names = append(names, name)
		}
	}
	return result.JSON(names), nil
}

func (t *DocumentTools) GetDoctypeMeta(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}

	fields, err := t.client.DoctypeMeta(ctx, doctype)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(fields), nil
}

func (t *DocumentTools) SearchLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	txt, err := req.RequireString("txt")
	if err != nil {
		return result.Error(err), nil
	}
	filters, err := params.Filters("filters", req.GetString("filters", ""))
	if err != nil {
		return result.Error(err), nil
	}

	matches, err := t.client.SearchLink(ctx, doctype, txt, filters, req.GetInt("page_length", erpnext.DefaultPageLength))
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(matches), nil
}
