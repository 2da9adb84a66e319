package reports

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"erpnext-mcp/configs"
	"erpnext-mcp/pkg/erpnext"
	"erpnext-mcp/pkg/params"
	"erpnext-mcp/pkg/result"
)

type ReportToolsDeps struct {
	*configs.Config
	Client *erpnext.Client
}

type ReportTools struct {
	*configs.Config
	client *erpnext.Client
}

// NewReportTools registers report execution, the generic whitelisted-method
// invoker and the document-conversion tool.
func NewReportTools(s *server.MCPServer, deps ReportToolsDeps) *ReportTools {
	t := &ReportTools{
		Config: deps.Config,
		client: deps.Client,
	}

	s.AddTool(mcp.NewTool("run_report",
		mcp.WithDescription("Execute a named report."),
		mcp.WithString("report_name", mcp.Required(), mcp.Description("Name of the report")),
		mcp.WithString("filters", mcp.Description("Optional JSON string of report filters")),
	), t.RunReport)

	s.AddTool(mcp.NewTool("run_method",
		mcp.WithDescription("Call a whitelisted server-side method."),
		mcp.WithString("method", mcp.Required(), mcp.Description("Dotted method path, e.g. \"frappe.client.get_list\"")),
		mcp.WithString("http_method", mcp.Description("GET or POST (default POST)")),
		mcp.WithString("args", mcp.Description("Optional JSON string of keyword arguments")),
	), t.RunMethod)

	s.AddTool(mcp.NewTool("make_mapped_doc",
		mcp.WithDescription("Create a draft document mapped from an existing one (document conversion), "+
			"e.g. erpnext.selling.doctype.quotation.quotation.make_sales_order turns a Quotation into a Sales Order. "+
			"The returned draft must be created and submitted separately."),
		mcp.WithString("method", mcp.Required(), mcp.Description("Dotted path of the mapping method")),
		mcp.WithString("source_name", mcp.Required(), mcp.Description("Name/ID of the source document")),
	), t.MakeMappedDoc)

	return t
}

func (t *ReportTools) RunReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reportName, err := req.RequireString("report_name")
	if err != nil {
		return result.Error(err), nil
	}
	filters, err := params.Filters("filters", req.GetString("filters", ""))
	if err != nil {
		return result.Error(err), nil
	}

	out, err := t.client.RunReport(ctx, reportName, filters)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(out), nil
}

func (t *ReportTools) RunMethod(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	method, err := req.RequireString("method")
	if err != nil {
		return result.Error(err), nil
	}
	args, err := params.Object("args", req.GetString("args", ""))
	if err != nil {
		return result.Error(err), nil
	}

	out, err := t.client.CallMethod(ctx, method, req.GetString("http_method", http.MethodPost), args)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(out), nil
}

func (t *ReportTools) MakeMappedDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	method, err := req.RequireString("method")
	if err != nil {
		return result.Error(err), nil
	}
	sourceName, err := req.RequireString("source_name")
	if err != nil {
		return result.Error(err), nil
	}

	draft, err := t.client.MakeMappedDoc(ctx, method, sourceName)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(draft), nil
}
