package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/bookview/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that drives a single viewer session.
type Server struct {
	sess *session.Session
	mcp  *server.MCPServer
}

// NewServer creates a new MCP server over the given session.
func NewServer(sess *session.Session) *Server {
	s := &Server{sess: sess}

	s.mcp = server.NewMCPServer(
		"bookview",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getStateTool, s.handleGetState)
	s.mcp.AddTool(requestPageTool, s.handleRequestPage)
	s.mcp.AddTool(nextSpreadTool, s.handleNextSpread)
	s.mcp.AddTool(prevSpreadTool, s.handlePrevSpread)
	s.mcp.AddTool(zoomTool, s.handleZoom)
	s.mcp.AddTool(toggleSidebarTool, s.handleToggleSidebar)
	s.mcp.AddTool(listTOCTool, s.handleListTOC)
	s.mcp.AddTool(selectTOCTool, s.handleSelectTOC)
	s.mcp.AddTool(getPageTextTool, s.handleGetPageText)
	s.mcp.AddTool(reloadTool, s.handleReload)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
