package render

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voiceaikb/internal/models"
	"voiceaikb/internal/search"
)

func testNav() []models.NavNode {
	return []models.NavNode{
		{ID: "asr", Title: "Speech Recognition", Href: "/topics/asr", Icon: models.IconMic, Children: []models.NavNode{
			{ID: "ctc", Title: "CTC Decoding", Href: "/topics/asr/ctc"},
		}},
		{ID: "tts", Title: "Speech Synthesis", Href: "/topics/tts"},
	}
}

func mustNew(t *testing.T) *Renderer {
	t.Helper()
	rn, err := New("Voice AI KB")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return rn
}

// --------------------------------------------------------------------------
// TestNew: all page templates parse, the layout is not a page
// --------------------------------------------------------------------------

func TestNew(t *testing.T) {
	rn := mustNew(t)

	for _, name := range []string{"home", "topic", "search", "quick", "not_found"} {
		if _, ok := rn.templates[name]; !ok {
			t.Errorf("expected template %q to be parsed", name)
		}
	}
	if _, ok := rn.templates["layout"]; ok {
		t.Error("layout.html should not be registered as a page")
	}
}

// --------------------------------------------------------------------------
// TestPageRendering: full pages include layout, nav and content
// --------------------------------------------------------------------------

func TestPageRendering(t *testing.T) {
	rn := mustNew(t)

	req := httptest.NewRequest(http.MethodGet, "/topics/asr/ctc", nil)
	w := httptest.NewRecorder()
	rn.Page(w, req, http.StatusOK, "topic", &PageData{
		Title:      "CTC Decoding",
		Nav:        testNav(),
		ActivePath: "/topics/asr/ctc",
		Data: map[string]any{
			"Category": &models.Category{ID: "ctc", Title: "CTC Decoding", Slug: "ctc", Tags: []string{"decoding"}},
			"Breadcrumbs": []models.Breadcrumb{
				{Label: "Speech Recognition", Href: "/topics/asr"},
				{Label: "CTC Decoding", Href: "/topics/asr/ctc"},
			},
			"Doc": &models.Document{
				HTML:     template.HTML(`<h2 id="greedy">Greedy</h2><p>Collapse repeats.</p>`),
				Headings: []models.Heading{{ID: "greedy", Text: "Greedy", Level: 2}},
			},
			"Prev": &models.TopicLink{Title: "Speech Recognition", Href: "/topics/asr"},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>CTC Decoding | Voice AI KB</title>",
		`<a href="/topics/asr">Speech Recognition</a>`,
		`<a href="#greedy">Greedy</a>`,
		"<p>Collapse repeats.</p>",
		`rel="prev" href="/topics/asr"`,
		`<li>decoding</li>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q", want)
		}
	}
	if strings.Contains(body, `rel="next"`) {
		t.Error("body should not contain a next link")
	}
	// Both the active node and its ancestor are highlighted.
	if c := strings.Count(body, `class="active"`); c != 2 {
		t.Errorf("active nav items: got %d, want 2", c)
	}
}

// --------------------------------------------------------------------------
// TestPlaceholder: a topic without an article renders a placeholder
// --------------------------------------------------------------------------

func TestPlaceholder(t *testing.T) {
	rn := mustNew(t)

	var buf bytes.Buffer
	err := rn.Execute(&buf, "topic", false, &PageData{
		Title: "Speech Synthesis",
		Data: map[string]any{
			"Category": &models.Category{ID: "tts", Title: "Speech Synthesis", Description: "Turning text into audio."},
		},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	body := buf.String()
	if !strings.Contains(body, `class="placeholder"`) {
		t.Error("expected placeholder block")
	}
	if !strings.Contains(body, "Turning text into audio.") {
		t.Error("expected description in placeholder page")
	}
	if strings.Contains(body, `class="toc"`) {
		t.Error("placeholder should not render a table of contents")
	}
}

// --------------------------------------------------------------------------
// TestHTMXPartialRendering: HTMX requests only render the content block
// --------------------------------------------------------------------------

func TestHTMXPartialRendering(t *testing.T) {
	rn := mustNew(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")

	w := httptest.NewRecorder()
	rn.Page(w, req, http.StatusOK, "home", &PageData{
		Nav: testNav(),
		Data: map[string]any{"Sections": []map[string]any{
			{"Title": "Speech Recognition", "Href": "/topics/asr", "Icon": models.IconMic},
		}},
	})

	body := w.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("HTMX partial should NOT contain <!DOCTYPE html>")
	}
	if strings.Contains(body, `class="sidebar"`) {
		t.Error("HTMX partial should NOT contain the sidebar")
	}
	if !strings.Contains(body, "Speech Recognition") {
		t.Error("HTMX partial should contain home content block")
	}
	if v := w.Header().Get("Vary"); v != "HX-Request" {
		t.Errorf("Vary: got %q, want HX-Request", v)
	}
}

// --------------------------------------------------------------------------
// TestQuickTemplate: the quick-search partial marks the selected row
// --------------------------------------------------------------------------

func TestQuickTemplate(t *testing.T) {
	rn := mustNew(t)

	results := []models.SearchResult{
		{SearchItem: models.SearchItem{Category: models.Category{Title: "Speech Recognition"}, Href: "/topics/asr"}, MatchType: models.MatchTitle},
		{SearchItem: models.SearchItem{Category: models.Category{Title: "CTC Decoding"}, Href: "/topics/asr/ctc", ParentTitle: "Speech Recognition"}, MatchType: models.MatchTitle},
	}
	sel := search.NewSelection(len(results))
	sel.Down()
	sel.Down()

	var buf bytes.Buffer
	err := rn.Execute(&buf, "quick", false, &PageData{
		Query: "speech",
		Data:  map[string]any{"Results": results, "Selection": sel},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	body := buf.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("quick partial should render without the layout")
	}
	if c := strings.Count(body, `aria-selected="true"`); c != 1 {
		t.Fatalf("selected rows: got %d, want 1", c)
	}
	if !strings.Contains(body, `class="selected" aria-selected="true" data-href="/topics/asr/ctc"`) {
		t.Error("second row should be selected")
	}
	if !strings.Contains(body, `href="/search?q=speech"`) {
		t.Error("expected link to full results")
	}
}

// --------------------------------------------------------------------------
// TestEscaping: taxonomy text is escaped
// --------------------------------------------------------------------------

func TestEscaping(t *testing.T) {
	rn := mustNew(t)

	var buf bytes.Buffer
	err := rn.Execute(&buf, "not_found", false, &PageData{
		Data: map[string]any{"Path": "/topics/<script>"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Error("path should be escaped")
	}
}

// --------------------------------------------------------------------------
// TestMissingTemplate: unknown template names fail cleanly
// --------------------------------------------------------------------------

func TestMissingTemplate(t *testing.T) {
	rn := mustNew(t)

	if err := rn.Execute(&bytes.Buffer{}, "nonexistent", false, &PageData{}); err == nil {
		t.Error("expected error for missing template")
	}

	w := httptest.NewRecorder()
	rn.Page(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "nonexistent", &PageData{})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

// --------------------------------------------------------------------------
// TestIsHTMX: HX-Request header detection
// --------------------------------------------------------------------------

func TestIsHTMX(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected bool
	}{
		{"no header", "", false},
		{"header true", "true", true},
		{"header false", "false", false},
		{"header random", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("HX-Request", tt.header)
			}
			if got := IsHTMX(req); got != tt.expected {
				t.Errorf("IsHTMX(): got %v, want %v", got, tt.expected)
			}
		})
	}
}
