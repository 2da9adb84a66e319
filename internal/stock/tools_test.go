package stock

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"erpnext-mcp/configs"
	"erpnext-mcp/pkg/erpnext"
)

func newStockTools(t *testing.T, handler http.HandlerFunc) *StockTools {
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
	return NewStockTools(server.NewMCPServer("test", "0.0.1"), StockToolsDeps{
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

func TestGetStockLedgerForwardsLimitAndOrder(t *testing.T) {
	tools := newStockTools(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/resource/Stock Ledger Entry" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit_page_length") != "50" {
			t.Fatalf("limit not forwarded, got %q", q.Get("limit_page_length"))
		}
		if q.Get("order_by") != "posting_date desc, posting_time desc" {
			t.Fatalf("unexpected order_by %q", q.Get("order_by"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"item_code": "ITEM-001", "posting_date": "2026-08-30"}]}`))
	})

	res, err := tools.GetStockLedger(context.Background(), callReq(map[string]any{
		"item_code": "ITEM-001",
		"limit":     50,
	}))
	if err != nil {
		t.Fatalf("GetStockLedger failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &entries); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestGetItemPriceRequiresItemCode(t *testing.T) {
	var calls int32
	tools := newStockTools(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	res, err := tools.GetItemPrice(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatalf("GetItemPrice failed: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("no remote call may be issued without item_code")
	}
}

func TestGetStockBalanceBuildsFilters(t *testing.T) {
	tools := newStockTools(t, func(w http.ResponseWriter, r *http.Request) {
		var filters map[string]any
		if err := json.Unmarshal([]byte(r.URL.Query().Get("filters")), &filters); err != nil {
			t.Fatalf("filters not JSON: %v", err)
		}
		if filters["item_code"] != "ITEM-001" || filters["warehouse"] != "Stores - C" {
			t.Fatalf("filters not forwarded: %v", filters)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"item_code": "ITEM-001", "warehouse": "Stores - C", "actual_qty": 12}]}`))
	})

	res, err := tools.GetStockBalance(context.Background(), callReq(map[string]any{
		"item_code": "ITEM-001",
		"warehouse": "Stores - C",
	}))
	if err != nil {
		t.Fatalf("GetStockBalance failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
}
