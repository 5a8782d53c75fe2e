package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ledger/internal/core"
	"ledger/internal/log"
)

const (
	ServerName    = "ExpenseTracker"
	ServerVersion = "1.0.0"

	ToolAddExpense   = "add_expense"
	ToolListExpenses = "list_expenses"
	ToolSummarize    = "summarize"
)

// Ledger is the set of operations exposed as tools.
type Ledger interface {
	AddExpense(ctx context.Context, e core.NewExpense) core.Result[int64]
	ListExpenses(ctx context.Context, rng core.DateRange) core.Result[[]core.Expense]
	Summarize(ctx context.Context, q core.SummaryQuery) core.Result[[]core.CategorySummary]
	Categories() core.CategoryCatalog
}

// Server registers the ledger tools and the categories resource on an MCP server.
type Server struct {
	ledger Ledger
	mcp    *server.MCPServer
	logger *log.Logger
}

func NewServer(ledger Ledger) *Server {
	s := &Server{
		ledger: ledger,
		mcp: server.NewMCPServer(ServerName, ServerVersion,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
		logger: log.Default(log.ComponentMCP),
	}
	s.register()
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves the protocol on r/w until ctx is cancelled or r is closed.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	s.logger.InfoContext(ctx, "Serving tools on stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, r, w)
}

// HTTPHandler returns the streamable HTTP transport for mounting on a mux.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

func (s *Server) register() {
	s.mcp.AddTool(mcp.NewTool(ToolAddExpense,
		mcp.WithDescription("Add a new expense entry to the database."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Expense date, YYYY-MM-DD")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount spent")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Expense category")),
		mcp.WithString("subcategory", mcp.Description("Optional subcategory")),
		mcp.WithString("note", mcp.Description("Optional free-form note")),
	), s.handleAddExpense)

	s.mcp.AddTool(mcp.NewTool(ToolListExpenses,
		mcp.WithDescription("List expense entries within an inclusive date range."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("First date, inclusive")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("Last date, inclusive")),
	), s.handleListExpenses)

	s.mcp.AddTool(mcp.NewTool(ToolSummarize,
		mcp.WithDescription("Summarize expenses by category within an inclusive date range."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("First date, inclusive")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("Last date, inclusive")),
		mcp.WithString("category", mcp.Description("Only summarize this category")),
	), s.handleSummarize)

	s.mcp.AddResource(mcp.NewResource(core.CategoriesURI, "categories",
		mcp.WithResourceDescription("Suggested expense categories"),
		mcp.WithMIMEType(core.CategoriesMIMEType),
	), s.handleCategories)
}

func (s *Server) handleAddExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return s.argumentError(ctx, ToolAddExpense, err), nil
	}
	amount, err := req.RequireFloat("amount")
	if err != nil {
		return s.argumentError(ctx, ToolAddExpense, err), nil
	}
	category, err := req.RequireString("category")
	if err != nil {
		return s.argumentError(ctx, ToolAddExpense, err), nil
	}

	res := s.ledger.AddExpense(ctx, core.NewExpense{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Subcategory: req.GetString("subcategory", ""),
		Note:        req.GetString("note", ""),
	})
	if !res.OK() {
		return failure(res.Failure()), nil
	}
	return success(core.NewAddExpenseResponse(res.Value())), nil
}

func (s *Server) handleListExpenses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rng, err := dateRange(req)
	if err != nil {
		return s.argumentError(ctx, ToolListExpenses, err), nil
	}

	res := s.ledger.ListExpenses(ctx, rng)
	if !res.OK() {
		return failure(res.Failure()), nil
	}
	return success(res.Value()), nil
}

func (s *Server) handleSummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rng, err := dateRange(req)
	if err != nil {
		return s.argumentError(ctx, ToolSummarize, err), nil
	}

	res := s.ledger.Summarize(ctx, core.SummaryQuery{
		Range:    rng,
		Category: req.GetString("category", ""),
	})
	if !res.OK() {
		return failure(res.Failure()), nil
	}
	return success(res.Value()), nil
}

func (s *Server) handleCategories(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	body, err := s.ledger.Categories().JSON()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      core.CategoriesURI,
			MIMEType: core.CategoriesMIMEType,
			Text:     body,
		},
	}, nil
}

func dateRange(req mcp.CallToolRequest) (core.DateRange, error) {
	start, err := req.RequireString("start_date")
	if err != nil {
		return core.DateRange{}, err
	}
	end, err := req.RequireString("end_date")
	if err != nil {
		return core.DateRange{}, err
	}
	return core.DateRange{Start: start, End: end}, nil
}

func (s *Server) argumentError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	s.logger.WarnContext(ctx, "Invalid tool arguments", log.FieldTool, tool, log.FieldError, err)
	return failure(core.Failure{Status: core.StatusError, Message: err.Error()})
}

func success(v any) *mcp.CallToolResult {
	body, err := json.Marshal(v)
	if err != nil {
		return failure(core.Failure{Status: core.StatusError, Message: err.Error()})
	}
	return mcp.NewToolResultText(string(body))
}

func failure(f core.Failure) *mcp.CallToolResult {
	body, _ := json.Marshal(f)
	return mcp.NewToolResultError(string(body))
}
