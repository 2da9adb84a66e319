package party

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"erpnext-mcp/configs"
	"erpnext-mcp/pkg/erpnext"
	"erpnext-mcp/pkg/result"
)

type PartyToolsDeps struct {
	*configs.Config
	Client *erpnext.Client
}

type PartyTools struct {
	*configs.Config
	client *erpnext.Client
}

// NewPartyTools registers the customer/supplier tools.
func NewPartyTools(s *server.MCPServer, deps PartyToolsDeps) *PartyTools {
	t := &PartyTools{
		Config: deps.Config,
		client: deps.Client,
	}

	s.AddTool(mcp.NewTool("get_party_balance",
		mcp.WithDescription("Get the outstanding balance of a Customer or Supplier."),
		mcp.WithString("party_type", mcp.Required(), mcp.Description("\"Customer\" or \"Supplier\"")),
		mcp.WithString("party", mcp.Required(), mcp.Description("Party name/ID")),
	), t.GetPartyBalance)

	s.AddTool(mcp.NewTool("get_supplier_details",
		mcp.WithDescription("Get supplier details including address, phone and contacts."),
		mcp.WithString("name", mcp.Description("Exact supplier name/ID")),
		mcp.WithString("keyword", mcp.Description("Search keyword when the exact name is unknown")),
	), t.GetSupplierDetails)

	s.AddTool(mcp.NewTool("get_customer_details",
		mcp.WithDescription("Get customer details including address, phone and contacts."),
		mcp.WithString("name", mcp.Description("Exact customer name/ID")),
		mcp.WithString("keyword", mcp.Description("Search keyword when the exact name is unknown")),
	), t.GetCustomerDetails)

	return t
}

func (t *PartyTools) GetPartyBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	partyType, err := req.RequireString("party_type")
	if err != nil {
		return result.Error(err), nil
	}
	party, err := req.RequireString("party")
	if err != nil {
		return result.Error(err), nil
	}

	balance, err := t.client.PartyBalance(ctx, partyType, party)
	if err != nil {
		return result.Error(err), nil
	}
	return result.JSON(balance), nil
}
