package documents

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"erpnext-mcp/pkg/result"
)

// Submit and cancel both go through the client's fetch-then-reissue
// sequence as one logical operation; splitting the steps would reintroduce
// the stale-timestamp conflict the sequence exists to avoid.

func (t *DocumentTools) SubmitDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return result.Error(err), nil
	}

	out, err := t.client.SubmitDoc(ctx, doctype, name)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(out), nil
}

func (t *DocumentTools) CancelDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doctype, err := req.RequireString("doctype")
	if err != nil {
		return result.Error(err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return result.Error(err), nil
	}

	out, err := t.client.CancelDoc(ctx, doctype, name)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(out), nil
}
