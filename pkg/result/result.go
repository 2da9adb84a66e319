package result

import (
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
)

// JSON marshals v and wraps it as a text tool result.
func JSON(v any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encoding result: " + err.Error())
	}
	return mcp.NewToolResultText(string(b))
}

// Error wraps a failed call as a tool error result.
func Error(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
