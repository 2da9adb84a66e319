package documents

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"erpnext-mcp/pkg/erpnext"
	"erpnext-mcp/pkg/params"
	"erpnext-mcp/pkg/result"
)

func (t *DocumentTools) ListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	filters, err := params.Filters("filters", req.GetString("filters", ""))
	if err != nil {
		return result.Error(err), nil
	}
	orFilters, err := params.Filters("or_filters", req.GetString("or_filters", ""))
	if err != nil {
		return result.Error(err), nil
	}

	docs, err := t.client.GetList(ctx, doctype, erpnext.ListOptions{
		Fields:          params.StringList(req.GetArguments(), "fields"),
		Filters:         filters,
		OrFilters:       orFilters,
		OrderBy:         req.GetString("order_by", ""),
		LimitStart:      req.GetInt("limit_start", 0),
		LimitPageLength: req.GetInt("limit_page_length", erpnext.DefaultPageLength),
	})
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(docs), nil
}

func (t *DocumentTools) GetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return result.Error(err), nil
	}

	doc, err := t.client.GetDoc(ctx, doctype, name, params.StringList(req.GetArguments(), "fields"))
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(doc), nil
}

func (t *DocumentTools) CreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	raw, err := req.RequireString("data")
	if err != nil {
		return result.Error(err), nil
	}
	data, err := params.Object("data", raw)
	if err != nil {
		return result.Error(err), nil
	}

	doc, err := t.client.CreateDoc(ctx, doctype, data)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(doc), nil
}

func (t *DocumentTools) UpdateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return result.Error(err), nil
	}
	raw, err := req.RequireString("data")
	if err != nil {
		return result.Error(err), nil
	}
	data, err := params.Object("data", raw)
	if err != nil {
		return result.Error(err), nil
	}

	doc, err := t.client.UpdateDoc(ctx, doctype, name, data)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(doc), nil
}

func (t *DocumentTools) DeleteDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return result.Error(err), nil
	}

	out, err := t.client.DeleteDoc(ctx, doctype, name)
	if err != nil {
		return result.Error(err), nil
	}
	if out == nil {
		out = map[string]any{"message": "ok"}
	}
	return result.JSON(out), nil
}
