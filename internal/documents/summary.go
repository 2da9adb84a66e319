package documents

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"erpnext-mcp/pkg/erpnext"
	"erpnext-mcp/pkg/params"
	"erpnext-mcp/pkg/result"
)

// ListWithSummary is a page of documents together with the unpaged total.
type ListWithSummary struct {
	Data       []map[string]any `json:"data"`
	TotalCount int              `json:"total_count"`
}

func (t *DocumentTools) GetCount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	filters, err := params.Filters("filters", req.GetString("filters", ""))
	if err != nil {
		return result.Error(err), nil
	}

	count, err := t.client.GetCount(ctx, doctype, filters)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(count), nil
}

// GetListWithSummary issues the list and the count strictly in sequence; a
// failure in either aborts before a partial result is produced.
func (t *DocumentTools) GetListWithSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	filters, err := params.Filters("filters", req.GetString("filters", ""))
	if err != nil {
		return result.Error(err), nil
	}

	docs, err := t.client.GetList(ctx, doctype, erpnext.ListOptions{
		Fields:          params.StringList(req.GetArguments(), "fields"),
		Filters:         filters,
		OrderBy:         req.GetString("order_by", ""),
		LimitPageLength: req.GetInt("limit_page_length", erpnext.DefaultPageLength),
	})
	if err != nil {
		return result.Error(err), nil
	}
	count, err := t.client.GetCount(ctx, doctype, filters)
	if err != nil {
		return result.Error(err), nil
	}

	return result.JSON(ListWithSummary{Data: docs, TotalCount: count}), nil
}
