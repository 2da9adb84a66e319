package documents

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"erpnext-mcp/configs"
	"erpnext-mcp/pkg/erpnext"
)

type DocumentToolsDeps struct {
	*configs.Config
	Client *erpnext.Client
}

type DocumentTools struct {
	*configs.Config
	client *erpnext.Client
}

// NewDocumentTools registers the generic document tools: CRUD, workflow
// transitions, counting and doctype introspection.
func NewDocumentTools(s *server.MCPServer, deps DocumentToolsDeps) *DocumentTools {
	t := &DocumentTools{
		Config: deps.Config,
		client: deps.Client,
	}

	s.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List documents of a DocType with optional filtering, sorting and pagination."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name, e.g. \"Sales Order\" or \"Customer\"")),
		mcp.WithArray("fields", mcp.Description("Field names to return; defaults to [\"name\"]"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("filters", mcp.Description(`JSON string of filters, e.g. '{"status": "Open"}' or '[["status","=","Open"]]'`)),
		mcp.WithString("or_filters", mcp.Description("JSON string of OR filters")),
		mcp.WithString("order_by", mcp.Description("Sort expression, e.g. \"creation desc\"")),
		mcp.WithNumber("limit_start", mcp.Description("Pagination offset")),
		mcp.WithNumber("limit_page_length", mcp.Description("Records per page (max 100)")),
	), t.ListDocuments)

	s.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Get a single document by DocType and name."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name/ID")),
		mcp.WithArray("fields", mcp.Description("Optional field names to return"), mcp.Items(map[string]any{"type": "string"})),
	), t.GetDocument)

	s.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new document."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
		mcp.WithString("data", mcp.Required(), mcp.Description(`JSON string of field values, e.g. '{"customer_name": "Test", "customer_type": "Individual"}'`)),
	), t.CreateDocument)

	s.AddTool(mcp.NewTool("update_document",
		mcp.WithDescription("Update an existing document."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name/ID")),
		mcp.WithString("data", mcp.Required(), mcp.Description("JSON string of fields to update")),
	), t.UpdateDocument)

	s.AddTool(mcp.NewTool("delete_document",
		mcp.WithDescription("Delete a document."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name/ID")),
	), t.DeleteDocument)

	s.AddTool(mcp.NewTool("submit_document",
		mcp.WithDescription("Submit a submittable document (e.g. Sales Invoice)."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name/ID")),
	), t.SubmitDocument)

	s.AddTool(mcp.NewTool("cancel_document",
		mcp.WithDescription("Cancel a submitted document."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name/ID")),
	), t.CancelDocument)

	s.AddTool(mcp.NewTool("get_count",
		mcp.WithDescription("Get the document count of a DocType with optional filters."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
		mcp.WithString("filters", mcp.Description("Optional JSON string of filters")),
	), t.GetCount)

	s.AddTool(mcp.NewTool("get_list_with_summary",
		mcp.WithDescription("Get a list of documents together with the total count."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
		mcp.WithArray("fields", mcp.Description("Field names to return"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("filters", mcp.Description("Optional JSON string of filters")),
		mcp.WithString("order_by", mcp.Description("Sort expression")),
		mcp.WithNumber("limit_page_length", mcp.Description("Records per page (max 100)")),
	), t.GetListWithSummary)

	s.AddTool(mcp.NewTool("list_doctypes",
		mcp.WithDescription("List available DocType names."),
		mcp.WithString("module", mcp.Description("Optional module filter, e.g. \"Selling\", \"Stock\", \"Accounts\"")),
		mcp.WithBoolean("is_submittable", mcp.Description("Optional filter for submittable doctypes only")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 100)")),
	), t.ListDoctypes)

	s.AddTool(mcp.NewTool("get_doctype_meta",
		mcp.WithDescription("Get the field definitions of a DocType."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType name")),
	), t.GetDoctypeMeta)

	s.AddTool(mcp.NewTool("search_link",
		mcp.WithDescription("Search link field values (autocomplete)."),
		mcp.WithString("doctype", mcp.Required(), mcp.Description("DocType to search in")),
		mcp.WithString("txt", mcp.Required(), mcp.Description("Search text")),
		mcp.WithString("filters", mcp.Description("Optional JSON string of filters")),
		mcp.WithNumber("page_length", mcp.Description("Max results (default 20)")),
	), t.SearchLink)

	return t
}
