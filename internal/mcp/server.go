// Package mcp provides an MCP (Model Context Protocol) server exposing
// the aggregated sweep results to interactive analysis sessions.
package mcp

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/opdyn/polsweep/internal/store"
	"github.com/opdyn/polsweep/internal/trend"
)

// Server wraps the MCP SDK server around a result store.
type Server struct {
	server     *sdk.Server
	store      *store.ResultStore
	thresholds trend.Thresholds
}

// Config holds server configuration.
type Config struct {
	Name       string // Server name (e.g., "polsweep")
	Version    string // Server version
	Store      *store.ResultStore
	Thresholds trend.Thresholds
}

// NewServer creates a new MCP server with the polsweep query tools.
func NewServer(cfg *Config) *Server {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:     mcpServer,
		store:      cfg.Store,
		thresholds: cfg.Thresholds,
	}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.store.Close()

	return err
}

// registerTools registers all polsweep MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "polsweep_query",
		Description: "Query aggregated sweep records, optionally filtered by parameter fields and polarization label",
	}, s.handleQuery)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "polsweep_summary",
		Description: "Summarize polarizing/nonpolarizing counts and shares, optionally grouped by a parameter field",
	}, s.handleSummary)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "polsweep_classify",
		Description: "Fit a trend line to an ad-hoc polarization series and classify it with the configured thresholds",
	}, s.handleClassify)
}
