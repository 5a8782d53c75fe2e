package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
)

// Ledger is the service surface exposed over HTTP.
type Ledger interface {
	AddExpense(ctx context.Context, e core.NewExpense) core.Result[int64]
	ListExpenses(ctx context.Context, rng core.DateRange) core.Result[[]core.Expense]
	Summarize(ctx context.Context, q core.SummaryQuery) core.Result[[]core.CategorySummary]
	Categories() core.CategoryCatalog
	Ready(ctx context.Context) error
}

// Options configures optional parts of the server.
type Options struct {
	RateLimitPerMinute int
	// TrustedProxies extends the default trusted networks for forwarding headers.
	TrustedProxies []string
	// MCPHandler is mounted at /mcp when set.
	MCPHandler http.Handler
}

type Server struct {
	http.Server
	ledger  Ledger
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ledger Ledger, opts Options) *Server {
	mux := http.NewServeMux()
	clientIP := security.NewClientIPResolver()
	for _, cidr := range opts.TrustedProxies {
		if err := clientIP.AddTrustedProxy(cidr); err != nil {
			log.Default(log.ComponentHTTP).Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}

	s := &Server{
		ledger:  ledger,
		limiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		tracer:  trace.NewMiddleware(clientIP.ClientIP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("POST /api/expenses", s.handleAddExpense)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	if opts.MCPHandler != nil {
		mux.Handle("/mcp", opts.MCPHandler)
	}

	// Outermost first: trace, security headers, rate limit
	var handler http.Handler = mux
	handler = s.limiter.Middleware(clientIP.ClientIP, writeRateLimited)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and the limiter cleanup goroutine
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics exposes request counters collected by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}
