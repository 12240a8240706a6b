package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/guidesearch/guide"
	"github.com/jonwraymond/guidesearch/search"
)

// Options configures a Server.
type Options struct {
	// Name identifies the server to MCP clients. If empty,
	// "guidesearch" is used.
	Name string

	// Version is reported to MCP clients.
	Version string

	// Logger receives request failures. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// Server exposes a guide over the Model Context Protocol so agents
// and editors can search the guide and manage notes and bookmarks.
type Server struct {
	guide  *guide.Guide
	mcp    *mcp.Server
	logger *slog.Logger
}

// New wraps g in an MCP server with all guide tools registered.
func New(g *guide.Guide, opts ...Options) *Server {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	name := o.Name
	if name == "" {
		name = "guidesearch"
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		guide:  g,
		mcp:    mcp.NewServer(&mcp.Implementation{Name: name, Version: o.Version}, nil),
		logger: logger,
	}
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server, for callers that want to
// register extra tools or connect custom transports.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Run serves MCP over stdio until ctx is cancelled or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns an http.Handler speaking the streamable HTTP
// transport.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
}

type searchArgs struct {
	Query string `json:"query" jsonschema:"the free-text search query"`
}

type searchHit struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	SectionID   string  `json:"sectionId,omitempty"`
	Score       float64 `json:"score"`
}

type searchReply struct {
	Query   string      `json:"query"`
	Results []searchHit `json:"results"`
}

type recentArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries to return"`
}

type addNoteArgs struct {
	Title     string   `json:"title" jsonschema:"note title"`
	Content   string   `json:"content,omitempty" jsonschema:"note body"`
	SectionID string   `json:"sectionId,omitempty" jsonschema:"guide section the note belongs to"`
	Tags      []string `json:"tags,omitempty" jsonschema:"free-form tags"`
}

type toggleBookmarkArgs struct {
	ItemID   string `json:"itemId" jsonschema:"id of the guide item to bookmark"`
	ItemType string `json:"itemType,omitempty" jsonschema:"type of the referenced item"`
	Title    string `json:"title" jsonschema:"display title of the bookmark"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_guide",
		Description: "Search the learning guide across sections, content, code snippets, notes and bookmarks",
	}, s.searchGuide)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "recent_searches",
		Description: "List the most recent search queries",
	}, s.recentSearches)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "top_searches",
		Description: "List the most repeated search queries",
	}, s.topSearches)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_note",
		Description: "Create a note; it becomes searchable immediately",
	}, s.addNote)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "toggle_bookmark",
		Description: "Bookmark a guide item, or remove the bookmark if it exists",
	}, s.toggleBookmark)
}

func (s *Server) searchGuide(ctx context.Context, req *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, any, error) {
	results, err := s.guide.Search(ctx, args.Query)
	if err != nil {
		if errors.Is(err, search.ErrQueryTooShort) {
			return nil, nil, fmt.Errorf("query %q is too short", args.Query)
		}
		s.logger.Warn("search_guide failed", "query", args.Query, "error", err)
		return nil, nil, err
	}

	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, searchHit{
			ID:          r.Record.ID,
			Type:        string(r.Record.Type),
			Title:       r.Record.Title,
			Description: r.Record.Description,
			SectionID:   r.Record.SectionID,
			Score:       r.Score,
		})
	}
	return nil, searchReply{Query: args.Query, Results: hits}, nil
}

func (s *Server) recentSearches(ctx context.Context, req *mcp.CallToolRequest, args recentArgs) (*mcp.CallToolResult, any, error) {
	return nil, map[string]any{"entries": s.guide.History().Recent(args.Limit)}, nil
}

func (s *Server) topSearches(ctx context.Context, req *mcp.CallToolRequest, args recentArgs) (*mcp.CallToolResult, any, error) {
	return nil, map[string]any{"queries": s.guide.History().Top(args.Limit)}, nil
}

func (s *Server) addNote(ctx context.Context, req *mcp.CallToolRequest, args addNoteArgs) (*mcp.CallToolResult, any, error) {
	note, err := s.guide.Notes().Create(ctx, args.Title, args.Content, args.SectionID, args.Tags)
	if err != nil {
		return nil, nil, err
	}
	return nil, note, nil
}

func (s *Server) toggleBookmark(ctx context.Context, req *mcp.CallToolRequest, args toggleBookmarkArgs) (*mcp.CallToolResult, any, error) {
	added, err := s.guide.Bookmarks().Toggle(ctx, args.ItemID, args.ItemType, args.Title)
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]any{"bookmarked": added}, nil
}
