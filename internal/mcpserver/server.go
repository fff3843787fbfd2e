// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the document tree and documents via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mdview/internal/apperr"
	"github.com/starford/mdview/internal/docservice"
)

const treeURI = "mdview://tree"

// Server wraps the MCP server with mdview tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *docservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"mdview",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_tree",
		mcp.WithDescription("List the directories and markdown documents of the content root as a JSON tree."),
		mcp.WithBoolean("detailed", mcp.Description("Include size, item count and modification time on every node")),
	), s.listTree)

	s.mcp.AddTool(mcp.NewTool("directory_details",
		mcp.WithDescription("Describe one directory: aggregate size, item count and its detailed children."),
		mcp.WithString("path", mcp.Description("Directory relative to the content root (empty for the root)")),
		mcp.WithNumber("depth", mcp.Description("Levels of children to include, 0 for unlimited (default 1)")),
	), s.directoryDetails)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a markdown document with its front matter parsed into metadata."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. guide/intro.md)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("read_raw",
		mcp.WithDescription("Read the unparsed text of a document, front matter included."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document")),
	), s.readRaw)

	s.mcp.AddTool(mcp.NewTool("find_home",
		mcp.WithDescription("Return the first readme or index document of the tree."),
	), s.findHome)

	s.mcp.AddResource(
		mcp.NewResource(treeURI, "Document Tree",
			mcp.WithResourceDescription("Plain tree of all markdown documents."),
			mcp.WithMIMEType("application/json"),
		),
		s.readTreeResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	build := s.svc.Tree
	if req.GetBool("detailed", false) {
		build = s.svc.DetailedTree
	}
	entries, err := build(ctx)
	if err != nil {
		return toolError(err, ""), nil
	}
	return jsonResult(entries)
}

func (s *Server) directoryDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	depth := req.GetInt("depth", 1)
	if depth < 0 {
		return mcp.NewToolResultError("depth must be a non-negative integer"), nil
	}
	entry, err := s.svc.Details(ctx, path, depth)
	if err != nil {
		return toolError(err, path), nil
	}
	return jsonResult(entry)
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Document(ctx, path)
	if err != nil {
		return toolError(err, path), nil
	}
	return jsonResult(doc)
}

func (s *Server) readRaw(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.Raw(ctx, path)
	if err != nil {
		return toolError(err, path), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) findHome(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.svc.Home(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("no readme or index document found"), nil
		}
		return toolError(err, ""), nil
	}
	return jsonResult(doc)
}

func (s *Server) readTreeResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := s.svc.Tree(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      treeURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

func toolError(err error, path string) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path))
	case errors.Is(err, apperr.ErrInvalidPath):
		return mcp.NewToolResultError(fmt.Sprintf("invalid path: %s", path))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
