package stock

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"erpnext-mcp/configs"
	"erpnext-mcp/pkg/erpnext"
	"erpnext-mcp/pkg/result"
)

type StockToolsDeps struct {
	*configs.Config
	Client *erpnext.Client
}

type StockTools struct {
	*configs.Config
	client *erpnext.Client
}

// NewStockTools registers the inventory read tools.
func NewStockTools(s *server.MCPServer, deps StockToolsDeps) *StockTools {
	t := &StockTools{
		Config: deps.Config,
		client: deps.Client,
	}

	s.AddTool(mcp.NewTool("get_stock_balance",
		mcp.WithDescription("Get real-time stock balance from Bin records."),
		mcp.WithString("item_code", mcp.Description("Optional item code to filter")),
		mcp.WithString("warehouse", mcp.Description("Optional warehouse to filter")),
	), t.GetStockBalance)

	s.AddTool(mcp.NewTool("get_stock_ledger",
		mcp.WithDescription("Get stock ledger entries (inventory transaction history), newest first."),
		mcp.WithString("item_code", mcp.Description("Optional item code filter")),
		mcp.WithString("warehouse", mcp.Description("Optional warehouse filter")),
		mcp.WithNumber("limit", mcp.Description("Max records to return (default 50)")),
	), t.GetStockLedger)

	s.AddTool(mcp.NewTool("get_item_price",
		mcp.WithDescription("Get item prices from Item Price records."),
		mcp.WithString("item_code", mcp.Required(), mcp.Description("Item code to look up")),
		mcp.WithString("price_list", mcp.Description("Optional price list name, e.g. \"Standard Selling\"")),
	), t.GetItemPrice)

	return t
}

func (t *StockTools) GetStockBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	balances, err := t.client.StockBalance(ctx, req.GetString("item_code", ""), req.GetString("warehouse", ""))
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(balances), nil
}

func (t *StockTools) GetStockLedger(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := t.client.StockLedger(ctx,
		req.GetString("item_code", ""),
		req.GetString("warehouse", ""),
		req.GetInt("limit", 50),
	)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(entries), nil
}

func (t *StockTools) GetItemPrice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemCode, err := req.RequireString("item_code")
	if err != nil {
		return result.Error(err), nil
	}

	prices, err := t.client.ItemPrice(ctx, itemCode, req.GetString("price_list", ""))
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(prices), nil
}
