package main

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"erpnext-mcp/configs"
	"erpnext-mcp/internal/documents"
	"erpnext-mcp/internal/files"
	"erpnext-mcp/internal/party"
	"erpnext-mcp/internal/reports"
	"erpnext-mcp/internal/stock"
	"erpnext-mcp/pkg/erpnext"
)

func App() *server.MCPServer {
	conf := configs.LoadConfig()

	client := erpnext.NewClient(conf)

	s := server.NewMCPServer(
		"ERPNext",
		"1.0.0",
		server.WithInstructions("MCP server for the ERPNext REST API - CRUD, reports and workflow operations"),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	// tools
	documents.NewDocumentTools(s, documents.DocumentToolsDeps{
		Config: conf,
		Client: client,
	})

	reports.NewReportTools(s, reports.ReportToolsDeps{
		Config: conf,
		Client: client,
	})

	stock.NewStockTools(s, stock.StockToolsDeps{
		Config: conf,
		Client: client,
	})

	party.NewPartyTools(s, party.PartyToolsDeps{
		Config: conf,
		Client: client,
	})

	files.NewFileTools(s, files.FileToolsDeps{
		Config: conf,
		Client: client,
	})

	return s
}

func main() {
	app := App()
	log.Println("ERPNext MCP server listening on stdio")
	if err := server.ServeStdio(app); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
