// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Dagaz calendar tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/eventservice"
	"github.com/starford/dagaz/internal/feedstore"
	"github.com/starford/dagaz/internal/ics"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/voiceservice"
)

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp      *server.MCPServer
	events   *eventservice.Service
	voice    *voiceservice.Service
	feeds    feedstore.Provider
	importer *ics.Importer
}

// New creates a new MCP server with all Dagaz tools registered.
func New(events *eventservice.Service, voice *voiceservice.Service, feeds feedstore.Provider, importer *ics.Importer) *Server {
	s := &Server{events: events, voice: voice, feeds: feeds, importer: importer}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("interpret_command",
		mcp.WithDescription("Interpret a natural-language calendar command and execute it. "+
			"Schedule commands create events; the supported phrasing is described by the "+
			"get_command_grammar tool or the dagaz://command-grammar resource."),
		mcp.WithString("transcript", mcp.Required(), mcp.Description("The spoken or typed command text")),
	), s.interpretCommand)

	s.mcp.AddTool(mcp.NewTool("create_event",
		mcp.WithDescription("Create a calendar event with explicit fields."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Event title")),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start time, RFC3339 (e.g. 2024-01-16T14:00:00Z)")),
		mcp.WithString("end", mcp.Required(), mcp.Description("End time, RFC3339")),
		mcp.WithString("location", mcp.Description("Optional location")),
		mcp.WithString("description", mcp.Description("Optional description")),
	), s.createEvent)

	s.mcp.AddTool(mcp.NewTool("list_events",
		mcp.WithDescription("List events in an inclusive date range."),
		mcp.WithString("start", mcp.Required(), mcp.Description("Range start, RFC3339 or YYYY-MM-DD")),
		mcp.WithString("end", mcp.Required(), mcp.Description("Range end, RFC3339 or YYYY-MM-DD")),
	), s.listEvents)

	s.mcp.AddTool(mcp.NewTool("upcoming_events",
		mcp.WithDescription("List the next upcoming events."),
	), s.upcomingEvents)

	s.mcp.AddTool(mcp.NewTool("today_events",
		mcp.WithDescription("List events starting today."),
	), s.todayEvents)

	s.mcp.AddTool(mcp.NewTool("check_availability",
		mcp.WithDescription("Check whether a time slot is free and list conflicting events."),
		mcp.WithString("start", mcp.Required(), mcp.Description("Slot start, RFC3339")),
		mcp.WithString("end", mcp.Required(), mcp.Description("Slot end, RFC3339")),
	), s.checkAvailability)

	s.mcp.AddTool(mcp.NewTool("get_command_grammar",
		mcp.WithDescription("Returns the command grammar the interpreter understands. "+
			"Call this before phrasing commands for interpret_command."),
	), s.getCommandGrammar)

	s.mcp.AddTool(mcp.NewTool("import_feed",
		mcp.WithDescription("Download an ICS calendar feed from a URL, store it in the "+
			"import directory, and import its events."),
		mcp.WithString("url", mcp.Required(), mcp.Description("HTTP(S) URL of the .ics feed")),
		mcp.WithString("filename", mcp.Description("Optional filename to store the feed as (must end with .ics)")),
	), s.importFeed)

	// Resource: command grammar.
	s.mcp.AddResource(
		mcp.NewResource("dagaz://command-grammar", "Command Grammar",
			mcp.WithResourceDescription("The natural-language command grammar the interpreter understands."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCommandGrammarResource,
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

func parseWhen(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) interpretCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	transcript, err := req.RequireString("transcript")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.voice.Interpret(ctx, models.Transcript{Text: transcript, Confidence: 1.0})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) createEvent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	startRaw, err := req.RequireString("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	endRaw, err := req.RequireString("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start, err := parseWhen(startRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v", err)), nil
	}
	end, err := parseWhen(endRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
	}

	in := eventservice.EventInput{Title: title, StartTime: start, EndTime: end}
	if v, vErr := req.RequireString("location"); vErr == nil {
		in.Location = v
	}
	if v, vErr := req.RequireString("description"); vErr == nil {
		in.Description = v
	}

	ev, err := s.events.Create(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ev), nil
}

func (s *Server) listEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startRaw, err := req.RequireString("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	endRaw, err := req.RequireString("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := parseWhen(startRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v", err)), nil
	}
	end, err := parseWhen(endRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
	}

	events, err := s.events.List(ctx, start, end)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(events), nil
}

func (s *Server) upcomingEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := s.events.Upcoming(ctx, 10)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(events), nil
}

func (s *Server) todayEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := s.events.Today(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(events), nil
}

func (s *Server) checkAvailability(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startRaw, err := req.RequireString("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	endRaw, err := req.RequireString("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := parseWhen(startRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v", err)), nil
	}
	end, err := parseWhen(endRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
	}

	avail, err := s.events.CheckAvailability(ctx, start, end)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(avail), nil
}

func (s *Server) getCommandGrammar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CommandGrammar), nil
}

func (s *Server) readCommandGrammarResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dagaz://command-grammar",
			MIMEType: "text/markdown",
			Text:     CommandGrammar,
		},
	}, nil
}
