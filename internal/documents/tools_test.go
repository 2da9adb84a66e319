package documents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"erpnext-mcp/configs"
	"erpnext-mcp/pkg/erpnext"
)

func newDocumentTools(t *testing.T, handler http.HandlerFunc) *DocumentTools {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	conf := &configs.Config{
		ERPNext: configs.ERPNextConfig{
			URL:       ts.URL,
			APIKey:    "key",
			APISecret: "secret",
			Timeout:   5 * time.Second,
		},
	}
	return NewDocumentTools(server.NewMCPServer("test", "0.0.1"), DocumentToolsDeps{
		Config: conf,
		Client: erpnext.NewClient(conf),
	})
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

func TestListDocumentsMalformedFiltersFailsFast(t *testing.T) {
	var calls int32
	tools := newDocumentTools(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	res, err := tools.ListDocuments(context.Background(), callReq(map[string]any{
		"doctype": "Customer",
		"filters": `{"status": `,
	}))
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	if got := resultText(t, res); !strings.Contains(got, `"filters"`) {
		t.Fatalf("error should name the parameter: %s", got)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("no remote call may be issued for a malformed argument")
	}
}

func TestCreateDocumentMalformedDataFailsFast(t *testing.T) {
	var calls int32
	tools := newDocumentTools(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	res, err := tools.CreateDocument(context.Background(), callReq(map[string]any{
		"doctype": "Customer",
		"data":    `not json`,
	}))
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("no remote call may be issued for a malformed argument")
	}
}

func TestListDocumentsFiltersScenario(t *testing.T) {
	tools := newDocumentTools(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/resource/Customer" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var filters map[string]any
		if err := json.Unmarshal([]byte(r.URL.Query().Get("filters")), &filters); err != nil {
			t.Fatalf("filters param not JSON: %v", err)
		}
		if filters["customer_name"] != "Test Co" {
			t.Fatalf("filters not forwarded: %v", filters)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"name": "CUST-0001"}]}`))
	})

	res, err := tools.ListDocuments(context.Background(), callReq(map[string]any{
		"doctype": "Customer",
		"filters": `{"customer_name": "Test Co"}`,
	}))
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	var docs []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &docs); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(docs) != 1 || docs[0]["name"] != "CUST-0001" {
		t.Fatalf("unexpected result documents: %v", docs)
	}
}

func TestGetListWithSummaryMergesListAndCount(t *testing.T) {
	tools := newDocumentTools(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/resource/Customer":
			_, _ = w.Write([]byte(`{"data": [{"name": "CUST-0001"}, {"name": "CUST-0002"}]}`))
		case "/api/method/frappe.client.get_count":
			_, _ = w.Write([]byte(`{"message": 7}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	res, err := tools.GetListWithSummary(context.Background(), callReq(map[string]any{
		"doctype": "Customer",
	}))
	if err != nil {
		t.Fatalf("GetListWithSummary failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	var out ListWithSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(out.Data) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(out.Data))
	}
	if out.TotalCount != 7 {
		t.Fatalf("expected total_count 7, got %d", out.TotalCount)
	}
}

func TestGetListWithSummaryCountFailureAborts(t *testing.T) {
	tools := newDocumentTools(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/resource/Customer":
			_, _ = w.Write([]byte(`{"data": [{"name": "CUST-0001"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"exception": "count blew up"}`))
		}
	})

	res, err := tools.GetListWithSummary(context.Background(), callReq(map[string]any{
		"doctype": "Customer",
	}))
	if err != nil {
		t.Fatalf("GetListWithSummary failed: %v", err)
	}
	if !res.IsError {
		t.Fatal("a failed count must abort the merge")
	}
	if got := resultText(t, res); !strings.Contains(got, "count blew up") {
		t.Fatalf("remote message lost: %s", got)
	}
}

func TestSubmitDocumentNotFound(t *testing.T) {
	tools := newDocumentTools(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"exception": "DoesNotExistError"}`))
	})

	res, err := tools.SubmitDocument(context.Background(), callReq(map[string]any{
		"doctype": "Sales Order",
		"name":    "SO-9999",
	}))
	if err != nil {
		t.Fatalf("SubmitDocument failed: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	if got := resultText(t, res); !strings.Contains(got, string(erpnext.KindNotFound)) {
		t.Fatalf("expected not_found in error, got: %s", got)
	}
}

func TestListDoctypesEncodesSubmittableFilter(t *testing.T) {
	tools := newDocumentTools(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/resource/DocType" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var filters map[string]any
		if err := json.Unmarshal([]byte(r.URL.Query().Get("filters")), &filters); err != nil {
			t.Fatalf("filters not JSON: %v", err)
		}
		if filters["module"] != "Selling" {
			t.Fatalf("module filter missing: %v", filters)
		}
		if filters["is_submittable"] != float64(1) {
			t.Fatalf("is_submittable must be encoded as 1, got %v", filters["is_submittable"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"name": "Sales Order"}, {"name": "Sales Invoice"}]}`))
	})

	res, err := tools.ListDoctypes(context.Background(), callReq(map[string]any{
		"module":         "Selling",
		"is_submittable": true,
	}))
	if err != nil {
		t.Fatalf("ListDoctypes failed: %v", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(resultText(t, res)), &names); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(names) != 2 || names[0] != "Sales Order" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestMissingRequiredArgument(t *testing.T) {
	var calls int32
	tools := newDocumentTools(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	res, err := tools.GetDocument(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result for a missing doctype")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("no remote call may be issued for missing arguments")
	}
}
