package erpnext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"erpnext-mcp/configs"
)

const (
	// MaxPageLength bounds a single list response. Callers that need more
	// records must page with limit_start.
	MaxPageLength = 100

	// DefaultPageLength is used when a caller does not ask for a page length.
	DefaultPageLength = 20
)

// Client issues authenticated requests against an ERPNext instance. It holds
// no state besides the connection settings; every call is an independent
// request and no response is cached.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

func NewClient(conf *configs.Config) *Client {
	return &Client{
		baseURL:    conf.ERPNext.URL,
		authHeader: "token " + conf.ERPNext.APIKey + ":" + conf.ERPNext.APISecret,
		httpClient: &http.Client{Timeout: conf.ERPNext.Timeout},
	}
}

// ListOptions are the caller-controlled knobs of a document list.
type ListOptions struct {
	Fields          []string
	Filters         any
	OrFilters       any
	OrderBy         string
	LimitStart      int
	LimitPageLength int
}

// GetList returns document summaries for a doctype. The page length is
// clamped to MaxPageLength.
func (c *Client) GetList(ctx context.Context, doctype string, opts ListOptions) ([]map[string]any, error) {
	query := url.Values{}
	query.Set("limit_start", strconv.Itoa(opts.LimitStart))
	query.Set("limit_page_length", strconv.Itoa(clampPageLength(opts.LimitPageLength)))
	if len(opts.Fields) > 0 {
		query.Set("fields", encodeJSON(opts.Fields))
	}
	if opts.Filters != nil {
		query.Set("filters", encodeJSON(opts.Filters))
	}
	if opts.OrFilters != nil {
		query.Set("or_filters", encodeJSON(opts.OrFilters))
	}
	if opts.OrderBy != "" {
		query.Set("order_by", opts.OrderBy)
	}

	result, err := c.request(ctx, http.MethodGet, resourcePath(doctype), query, nil)
	if err != nil {
		return nil, err
	}
	return documentList(result["data"]), nil
}

// GetDoc fetches one document, optionally limited to the given fields.
func (c *Client) GetDoc(ctx context.Context, doctype, name string, fields []string) (map[string]any, error) {
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", encodeJSON(fields))
	}
	result, err := c.request(ctx, http.MethodGet, resourcePath(doctype, name), query, nil)
	if err != nil {
		return nil, err
	}
	return document(result["data"]), nil
}

// CreateDoc creates a document and returns it with the server-assigned name.
func (c *Client) CreateDoc(ctx context.Context, doctype string, data map[string]any) (map[string]any, error) {
	result, err := c.request(ctx, http.MethodPost, resourcePath(doctype), nil, map[string]any{"data": encodeJSON(data)})
	if err != nil {
		return nil, err
	}
	return document(result["data"]), nil
}

// UpdateDoc applies field changes and returns the document as recalculated
// by the server.
func (c *Client) UpdateDoc(ctx context.Context, doctype, name string, data map[string]any) (map[string]any, error) {
	result, err := c.request(ctx, http.MethodPut, resourcePath(doctype, name), nil, map[string]any{"data": encodeJSON(data)})
	if err != nil {
		return nil, err
	}
	return document(result["data"]), nil
}

// DeleteDoc removes a document. Deletion blocked by linked records fails
// with the remote error forwarded as-is.
func (c *Client) DeleteDoc(ctx context.Context, doctype, name string) (map[string]any, error) {
	return c.request(ctx, http.MethodDelete, resourcePath(doctype, name), nil, nil)
}

// CallMethod invokes a whitelisted server-side method. GET arguments travel
// as query parameters, POST arguments as the JSON body.
func (c *Client) CallMethod(ctx context.Context, method, httpMethod string, args map[string]any) (map[string]any, error) {
	path := "/api/method/" + method
	if strings.EqualFold(httpMethod, http.MethodPost) {
		body := args
		if body == nil {
			body = map[string]any{}
		}
		return c.request(ctx, http.MethodPost, path, nil, body)
	}
	query := url.Values{}
	for k, v := range args {
		query.Set(k, queryValue(v))
	}
	return c.request(ctx, http.MethodGet, path, query, nil)
}

// SubmitDoc moves a draft document into the submitted state. The remote
// submit endpoint validates the modification timestamp carried inside the
// document body, so the current full document is fetched and reissued with
// docstatus 1; a bare (doctype, name) reference would fail with a
// stale-timestamp conflict.
func (c *Client) SubmitDoc(ctx context.Context, doctype, name string) (map[string]any, error) {
	doc, err := c.GetDoc(ctx, doctype, name, nil)
	if err != nil {
		return nil, err
	}
	doc["docstatus"] = 1
	return c.CallMethod(ctx, "frappe.client.submit", http.MethodPost, map[string]any{"doc": encodeJSON(doc)})
}

// CancelDoc is symmetric to SubmitDoc: the full document is fetched and
// reissued with docstatus 2 so the timestamp check passes. The remote
// system rejects cancellation of documents with certain downstream links;
// that rejection is surfaced unmodified.
func (c *Client) CancelDoc(ctx context.Context, doctype, name string) (map[string]any, error) {
	doc, err := c.GetDoc(ctx, doctype, name, nil)
	if err != nil {
		return nil, err
	}
	doc["docstatus"] = 2
	return c.CallMethod(ctx, "frappe.client.cancel", http.MethodPost, map[string]any{"doc": encodeJSON(doc)})
}

// GetCount returns the number of documents matching the filters.
func (c *Client) GetCount(ctx context.Context, doctype string, filters any) (int, error) {
	args := map[string]any{"doctype": doctype}
	if filters != nil {
		args["filters"] = encodeJSON(filters)
	}
	result, err := c.CallMethod(ctx, "frappe.client.get_count", http.MethodGet, args)
	if err != nil {
		return 0, err
	}
	if n, ok := result["message"].(float64); ok {
		return int(n), nil
	}
	return 0, nil
}

// RunReport executes a named report. The tabular result is passed through
// uninterpreted.
func (c *Client) RunReport(ctx context.Context, reportName string, filters any) (map[string]any, error) {
	args := map[string]any{"report_name": reportName}
	if filters != nil {
		args["filters"] = encodeJSON(filters)
	}
	return c.CallMethod(ctx, "frappe.desk.query_report.run", http.MethodGet, args)
}

// SearchLink performs the link-field autocomplete search.
func (c *Client) SearchLink(ctx context.Context, doctype, txt string, filters any, pageLength int) ([]any, error) {
	if pageLength <= 0 {
		pageLength = DefaultPageLength
	}
	args := map[string]any{
		"doctype":     doctype,
		"txt":         txt,
		"page_length": pageLength,
	}
	if filters != nil {
		args["filters"] = encodeJSON(filters)
	}
	result, err := c.CallMethod(ctx, "frappe.desk.search.search_link", http.MethodGet, args)
	if err != nil {
		return nil, err
	}
	if v, ok := result["message"]; ok {
		return anyList(v), nil
	}
	return anyList(result["results"]), nil
}

// DoctypeMeta returns the field definitions of a doctype.
func (c *Client) DoctypeMeta(ctx context.Context, doctype string) ([]any, error) {
	args := map[string]any{
		"doctype":           "DocField",
		"filters":           encodeJSON(map[string]any{"parent": doctype}),
		"fields":            encodeJSON([]string{"fieldname", "fieldtype", "label", "reqd", "options"}),
		"limit_page_length": "0",
	}
	result, err := c.CallMethod(ctx, "frappe.client.get_list", http.MethodGet, args)
	if err != nil {
		return nil, err
	}
	return anyList(result["message"]), nil
}

// StockBalance reads per-warehouse quantities from Bin records.
func (c *Client) StockBalance(ctx context.Context, itemCode, warehouse string) ([]map[string]any, error) {
	filters := map[string]any{}
	if itemCode != "" {
		filters["item_code"] = itemCode
	}
	if warehouse != "" {
		filters["warehouse"] = warehouse
	}
	query := url.Values{}
	query.Set("fields", encodeJSON([]string{"item_code", "warehouse", "actual_qty", "reserved_qty", "ordered_qty", "projected_qty"}))
	query.Set("filters", encodeJSON(filters))
	query.Set("limit_page_length", "0")

	result, err := c.request(ctx, http.MethodGet, resourcePath("Bin"), query, nil)
	if err != nil {
		return nil, err
	}
	return documentList(result["data"]), nil
}

// ItemPrice returns the Item Price records of an item.
func (c *Client) ItemPrice(ctx context.Context, itemCode, priceList string) ([]map[string]any, error) {
	filters := map[string]any{"item_code": itemCode}
	if priceList != "" {
		filters["price_list"] = priceList
	}
	query := url.Values{}
	query.Set("fields", encodeJSON([]string{"item_code", "price_list", "price_list_rate", "currency", "uom"}))
	query.Set("filters", encodeJSON(filters))
	query.Set("limit_page_length", "0")

	result, err := c.request(ctx, http.MethodGet, resourcePath("Item Price"), query, nil)
	if err != nil {
		return nil, err
	}
	return documentList(result["data"]), nil
}

// StockLedger returns inventory transactions, newest first.
func (c *Client) StockLedger(ctx context.Context, itemCode, warehouse string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = 50
	}
	filters := map[string]any{}
	if itemCode != "" {
		filters["item_code"] = itemCode
	}
	if warehouse != "" {
		filters["warehouse"] = warehouse
	}
	query := url.Values{}
	query.Set("fields", encodeJSON([]string{"item_code", "warehouse", "posting_date", "qty_after_transaction", "actual_qty", "voucher_type", "voucher_no"}))
	query.Set("filters", encodeJSON(filters))
	query.Set("order_by", "posting_date desc, posting_time desc")
	query.Set("limit_page_length", strconv.Itoa(limit))

	result, err := c.request(ctx, http.MethodGet, resourcePath("Stock Ledger Entry"), query, nil)
	if err != nil {
		return nil, err
	}
	return documentList(result["data"]), nil
}

// MakeMappedDoc runs a server-side conversion routine and returns the draft
// document it produces. Nothing is persisted locally; the caller creates
// and submits the draft.
func (c *Client) MakeMappedDoc(ctx context.Context, method, sourceName string) (map[string]any, error) {
	result, err := c.CallMethod(ctx, method, http.MethodPost, map[string]any{"source_name": sourceName})
	if err != nil {
		return nil, err
	}
	if doc, ok := result["message"].(map[string]any); ok {
		return doc, nil
	}
	return result, nil
}

// PartyBalance returns the outstanding balance of a Customer or Supplier.
func (c *Client) PartyBalance(ctx context.Context, partyType, party string) (any, error) {
	result, err := c.CallMethod(ctx, "erpnext.accounts.utils.get_balance_on", http.MethodGet, map[string]any{
		"party_type": partyType,
		"party":      party,
	})
	if err != nil {
		return nil, err
	}
	if v, ok := result["message"]; ok {
		return v, nil
	}
	return 0, nil
}

// request issues one call and decodes the JSON response. Failures carry the
// remote error body; no retries are performed.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any) (map[string]any, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Method: method, Path: path, Message: err.Error()}
		}
		bodyReader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, method, path)
}

// do sends an already-built request with auth and decodes the response.
func (c *Client) do(req *http.Request, method, path string) (map[string]any, error) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: remoteMessage(raw),
		}
	}

	if len(raw) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &Error{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: "invalid JSON response: " + err.Error(),
		}
	}
	return out, nil
}

func resourcePath(doctype string, name ...string) string {
	p := "/api/resource/" + url.PathEscape(doctype)
	for _, n := range name {
		p += "/" + url.PathEscape(n)
	}
	return p
}

func clampPageLength(n int) int {
	if n <= 0 {
		return DefaultPageLength
	}
	if n > MaxPageLength {
		return MaxPageLength
	}
	return n
}

// encodeJSON renders a value for embedding in a query parameter or request
// body field. Marshaling of plain maps, slices and scalars cannot fail.
func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func queryValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool, int, int64, float64:
		return fmt.Sprint(x)
	default:
		return encodeJSON(x)
	}
}

// remoteMessage extracts the most useful part of a remote error body.
func remoteMessage(raw []byte) string {
	var body struct {
		Exception      string `json:"exception"`
		ExcType        string `json:"exc_type"`
		Message        string `json:"message"`
		ServerMessages string `json:"_server_messages"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, m := range []string{body.Exception, body.ServerMessages, body.Message, body.ExcType} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(raw))
}

func document(v any) map[string]any {
	doc, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return doc
}

func documentList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return []map[string]any{}
	}
	docs := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if doc, ok := item.(map[string]any); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

func anyList(v any) []any {
	items, ok := v.([]any)
	if !ok {
		return []any{}
	}
	return items
}
