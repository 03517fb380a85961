// Package tools exposes the departures service as MCP tools, reachable
// over SSE (/sse) and streamable HTTP (/mcp).
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tidbyt.dev/bustimes/model"
)

const (
	ServerName    = "UK Bus Departures"
	ServerVersion = "1.0.0"

	GetBusDeparturesTool = "get_bus_departures"
	ValidateAtcoCodeTool = "validate_atco_code"
)

// The parts of *bustimes.Service the tools call.
type Departures interface {
	GetDeparturesAt(ctx context.Context, stopCode string, date string, clock string) (*model.DeparturesResponse, error)
	ValidateStopCode(ctx context.Context, stopCode string) *model.ValidationResult
}

type handlers struct {
	departures Departures
	logger     *slog.Logger
}

// Creates an MCP server with both tools registered.
func NewServer(departures Departures, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.Default()
	}

	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	h := &handlers{departures: departures, logger: logger}

	s.AddTool(mcp.NewTool(GetBusDeparturesTool,
		mcp.WithDescription("Get real-time bus departures for a UK bus stop"),
		mcp.WithString("stop_code",
			mcp.Required(),
			mcp.Description("UK bus stop ATCO code (e.g., '0100BRP90023' or '010000037')"),
		),
		mcp.WithString("date",
			mcp.Description("Optional date in YYYY-MM-DD format (must be provided with time)"),
		),
		mcp.WithString("time",
			mcp.Description("Optional time in HH:MM format (must be provided with date)"),
		),
	), h.getBusDepartures)

	s.AddTool(mcp.NewTool(ValidateAtcoCodeTool,
		mcp.WithDescription("Check an ATCO stop code and look up the stop's metadata"),
		mcp.WithString("stop_code",
			mcp.Required(),
			mcp.Description("ATCO code to validate"),
		),
	), h.validateAtcoCode)

	return s
}

func (h *handlers) getBusDepartures(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stopCode, err := req.RequireString("stop_code")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error fetching bus departures: %s", err)), nil
	}

	h.logger.Info("tool called", "tool", GetBusDeparturesTool, "stop_code", stopCode)

	departures, err := h.departures.GetDeparturesAt(ctx, stopCode, req.GetString("date", ""), req.GetString("time", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error fetching bus departures: %s", err)), nil
	}

	return jsonResult(departures)
}

func (h *handlers) validateAtcoCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stopCode, err := req.RequireString("stop_code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.logger.Info("tool called", "tool", ValidateAtcoCodeTool, "stop_code", stopCode)

	return jsonResult(h.departures.ValidateStopCode(ctx, stopCode))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(buf)), nil
}

// Routes the MCP transports. Every other path is a 404.
func NewHandler(s *server.MCPServer) http.Handler {
	sse := server.NewSSEServer(s,
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/sse/message"),
	)
	streamable := server.NewStreamableHTTPServer(s,
		server.WithEndpointPath("/mcp"),
	)

	mux := http.NewServeMux()
	mux.Handle("/sse", sse.SSEHandler())
	mux.Handle("/sse/message", sse.MessageHandler())
	mux.Handle("/mcp", streamable)
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})
	return mux
}
