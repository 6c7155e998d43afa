/*
Package mcp implements the MCP server that exposes catalog search to
AI clients.

The server speaks newline-delimited JSON-RPC 2.0 over stdio and exposes
4 tools:
  - catalog_search: Rank the catalog against a free-text query
  - catalog_suggest: Autocomplete a partial query from record fields
  - catalog_get: Fetch a single record by id
  - catalog_list: List records, optionally by category
*/
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/search"
	"github.com/khanglvm/catalog-search/internal/version"
)

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeToolError      = -32000
)

const protocolVersion = "2024-11-05"

const maxLineSize = 1 << 20

// Server represents the catalog-search MCP server.
type Server struct {
	svc    *catalog.Service
	logger *zap.Logger
	mu     sync.Mutex // serializes writes
}

// NewServer creates a new MCP server over svc.
func NewServer(svc *catalog.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, logger: logger}
}

// Run serves on stdin/stdout until stdin is closed or ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one request per line from r and writes one response per line
// to w. It returns when r reaches EOF or ctx is canceled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		response, err := s.handleRequest(ctx, line)
		if err != nil {
			s.logger.Warn("malformed request", zap.Error(err))
			s.sendError(w, err)
			continue
		}

		if response != nil {
			s.sendResponse(w, response)
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request. Notifications get no
// response.
func (s *Server) handleRequest(ctx context.Context, data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	if strings.HasPrefix(req.Method, "notifications/") {
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req), nil
	case "ping":
		return &MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}, nil
	case "tools/list":
		return s.handleToolsList(&req), nil
	case "tools/call":
		return s.handleToolsCall(ctx, &req), nil
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found"), nil
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	info := version.Get()
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    info.Name,
				"version": info.Version,
			},
		},
	}
}

// handleToolsList returns the available tools with their input schemas.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	categories := make([]string, 0, len(search.Categories()))
	for _, c := range search.Categories() {
		categories = append(categories, string(c))
	}

	tools := []map[string]interface{}{
		{
			"name": "catalog_search",
			"description": `Search the catalog of courses, experiments, articles, news and datasets.

WHEN TO USE: To find records matching a topic. Chinese and English queries both work.

Results are ranked by relevance. When nothing scores, records containing the
query as a literal substring are returned instead.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Free-text query. Blank returns the whole catalog.",
					},
					"category": map[string]interface{}{
						"type":        "string",
						"description": "Restrict results to one category",
						"enum":        categories,
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results (0 = no limit)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name":        "catalog_suggest",
			"description": fmt.Sprintf("Autocomplete a partial query with up to %d titles, tags or keywords from the catalog.", search.MaxSuggestions),
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"partial": map[string]interface{}{
						"type":        "string",
						"description": "What the user has typed so far",
					},
				},
				"required": []string{"partial"},
			},
		},
		{
			"name":        "catalog_get",
			"description": "Get the full record for an id returned by catalog_search or catalog_list.",
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Record id",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			"name":        "catalog_list",
			"description": "List catalog records in catalog order, optionally restricted to one category.",
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"category": map[string]interface{}{
						"type":        "string",
						"description": "Category filter",
						"enum":        categories,
					},
				},
			},
		},
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}
}

// handleToolsCall handles tool execution requests.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("invalid params: %v", err))
	}

	var result string
	var err error

	switch params.Name {
	case "catalog_search":
		query, _ := params.Arguments["query"].(string)
		category, _ := params.Arguments["category"].(string)
		result, err = s.execSearch(ctx, query, category, intArg(params.Arguments, "limit"))
	case "catalog_suggest":
		partial, _ := params.Arguments["partial"].(string)
		result, err = s.execSuggest(ctx, partial)
	case "catalog_get":
		if _, ok := params.Arguments["id"]; !ok {
			return errorResponse(req.ID, CodeInvalidParams, "missing required argument: id")
		}
		result, err = s.execGet(intArg(params.Arguments, "id"))
	case "catalog_list":
		category, _ := params.Arguments["category"].(string)
		result, err = s.execList(category)
	default:
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	if err != nil {
		s.logger.Debug("tool call failed", zap.String("tool", params.Name), zap.Error(err))
		return errorResponse(req.ID, CodeToolError, err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}
}

func (s *Server) execSearch(ctx context.Context, query, category string, limit int) (string, error) {
	resp, err := s.svc.Search(ctx, catalog.Query{Text: query, Category: category, Limit: limit})
	if err != nil {
		return "", err
	}

	if len(resp.Results) == 0 {
		return fmt.Sprintf("No records match '%s'. Try catalog_suggest for related terms.", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d records for '%s' (strategy: %s", resp.Total, query, resp.Strategy)
	if len(resp.Results) < resp.Total {
		fmt.Fprintf(&b, ", showing %d", len(resp.Results))
	}
	b.WriteString("):\n")
	writeRecords(&b, resp.Results)
	return b.String(), nil
}

func (s *Server) execSuggest(ctx context.Context, partial string) (string, error) {
	suggestions, err := s.svc.Suggest(ctx, partial)
	if err != nil {
		return "", err
	}
	if len(suggestions) == 0 {
		return fmt.Sprintf("No suggestions for '%s'.", partial), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggestions for '%s':\n", partial)
	for _, sug := range suggestions {
		fmt.Fprintf(&b, "  • %s\n", sug)
	}
	return b.String(), nil
}

func (s *Server) execGet(id int) (string, error) {
	rec, err := s.svc.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrRecordNotFound) {
			return "", fmt.Errorf("record %d not found", id)
		}
		return "", err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	return string(data), nil
}

func (s *Server) execList(category string) (string, error) {
	records, err := s.svc.List(category)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "Catalog is empty. Run 'catalog-search add' to create records.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Catalog records (%d):\n", len(records))
	writeRecords(&b, records)
	return b.String(), nil
}

func writeRecords(b *strings.Builder, records []search.Record) {
	for _, r := range records {
		fmt.Fprintf(b, "  • [%d] %s (%s)", r.ID, r.Title, r.Category)
		if r.TargetURL != "" {
			fmt.Fprintf(b, " %s", r.TargetURL)
		}
		b.WriteString("\n")
	}
}

// intArg reads a JSON number argument. Missing or non-numeric values are 0.
func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return 0
	}
}

func errorResponse(id interface{}, code int, message string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message},
	}
}

// sendResponse writes a JSON-RPC response line.
func (s *Server) sendResponse(w io.Writer, resp *MCPResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
	}
}

// sendError writes a parse error response.
func (s *Server) sendError(w io.Writer, err error) {
	s.sendResponse(w, errorResponse(nil, CodeParseError, err.Error()))
}
