package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/guidesearch/catalog"
	"github.com/jonwraymond/guidesearch/guide"
)

const sampleYAML = `
sections:
  - id: css
    title: CSS Stílusok
    description: Megjelenés és elrendezés
    category: alapok
content:
  - id: css_flexbox
    title: Flexbox Layout
    description: CSS Flexbox használata
    body: display flex justify-content align-items
    section: css
`

// connect spins up the server over in-memory transports and returns a
// connected client session.
func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	cat, err := catalog.Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	g := guide.New(guide.Options{Catalog: cat})
	if err := g.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	srv := New(g, Options{Version: "test"})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := srv.MCP().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() { clientSession.Close() })
	return clientSession
}

func callText(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool %s failed: %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool %s returned tool error: %+v", name, result.Content)
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatalf("CallTool %s returned no text content", name)
	return ""
}

func TestListTools(t *testing.T) {
	session := connect(t)

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	want := map[string]bool{
		"search_guide":    false,
		"recent_searches": false,
		"top_searches":    false,
		"add_note":        false,
		"toggle_bookmark": false,
	}
	for _, tool := range tools.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %s not listed", name)
		}
	}
}

func TestSearchGuideTool(t *testing.T) {
	session := connect(t)

	text := callText(t, session, "search_guide", map[string]any{"query": "flexbox"})
	var reply searchReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		t.Fatalf("unexpected reply %q: %v", text, err)
	}
	if len(reply.Results) == 0 || reply.Results[0].ID != "css_flexbox" {
		t.Errorf("unexpected results: %+v", reply.Results)
	}

	// The search shows up in the history tools.
	recent := callText(t, session, "recent_searches", map[string]any{"limit": 5})
	if !strings.Contains(recent, "flexbox") {
		t.Errorf("recent_searches missing the query: %s", recent)
	}
	top := callText(t, session, "top_searches", map[string]any{})
	if !strings.Contains(top, "flexbox") {
		t.Errorf("top_searches missing the query: %s", top)
	}
}

func TestSearchGuideTool_TooShort(t *testing.T) {
	session := connect(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "search_guide",
		Arguments: map[string]any{"query": "a"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.IsError {
		t.Error("too-short query should surface as a tool error")
	}
}

func TestAddNoteAndToggleBookmarkTools(t *testing.T) {
	session := connect(t)

	note := callText(t, session, "add_note", map[string]any{
		"title":   "Flexbox jegyzet",
		"content": "ismétlés",
		"tags":    []string{"css"},
	})
	if !strings.Contains(note, "Flexbox jegyzet") {
		t.Errorf("unexpected add_note reply: %s", note)
	}

	// The note is searchable without any rebuild step.
	text := callText(t, session, "search_guide", map[string]any{"query": "ismétlés"})
	if !strings.Contains(text, "Flexbox jegyzet") {
		t.Errorf("fresh note not searchable: %s", text)
	}

	toggled := callText(t, session, "toggle_bookmark", map[string]any{
		"itemId":   "css_flexbox",
		"itemType": "content",
		"title":    "Flexbox Layout",
	})
	if !strings.Contains(toggled, "true") {
		t.Errorf("expected bookmarked true, got %s", toggled)
	}
	toggled = callText(t, session, "toggle_bookmark", map[string]any{
		"itemId":   "css_flexbox",
		"itemType": "content",
		"title":    "Flexbox Layout",
	})
	if !strings.Contains(toggled, "false") {
		t.Errorf("expected bookmarked false, got %s", toggled)
	}
}
