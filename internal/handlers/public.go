// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"voiceaikb/internal/cache"
	"voiceaikb/internal/content"
	"voiceaikb/internal/models"
	"voiceaikb/internal/render"
	"voiceaikb/internal/search"
	"voiceaikb/internal/taxonomy"
)

// Public groups handlers for the public-facing site. Topic pages and the
// homepage go through the L2 Valkey page cache; search is computed per
// request from the in-memory index.
type Public struct {
	index     *taxonomy.Index
	library   *content.Library
	renderer  *render.Renderer
	pageCache *cache.PageCache
	searches  *prometheus.CounterVec

	// Derived once from the index, which never changes after startup.
	nav   []models.NavNode
	items []models.SearchItem
}

// homeSection is one root topic card on the homepage.
type homeSection struct {
	Title       string
	Description string
	Href        string
	Icon        models.Icon
	Children    []models.NavNode
}

// NewPublic creates a new Public handler group. pageCache may be nil when
// Valkey is not configured; reg may be nil to skip search metrics.
func NewPublic(idx *taxonomy.Index, lib *content.Library, rn *render.Renderer, pageCache *cache.PageCache, reg prometheus.Registerer) *Public {
	p := &Public{
		index:     idx,
		library:   lib,
		renderer:  rn,
		pageCache: pageCache,
		nav:       idx.NavigationTree(),
		items:     idx.SearchItems(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voiceaikb",
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Search queries by surface and whether anything matched.",
		}, []string{"surface", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(p.searches)
	}
	return p
}

// Homepage renders the root topics with their direct children.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	if render.IsHTMX(r) {
		p.renderer.Page(w, r, http.StatusOK, "home", p.homeData())
		return
	}

	p.serveCached(w, r, cache.HomepageKey(), func() ([]byte, error) {
		return p.renderer.Bytes("home", p.homeData())
	})
}

func (p *Public) homeData() *render.PageData {
	roots := p.index.Roots()
	sections := make([]homeSection, 0, len(roots))
	for i, c := range roots {
		s := homeSection{
			Title:       c.Title,
			Description: c.Description,
			Href:        p.index.Href(c),
			Icon:        c.Icon,
		}
		// The navigation tree lists roots in the same order.
		if i < len(p.nav) {
			s.Children = p.nav[i].Children
		}
		sections = append(sections, s)
	}
	return &render.PageData{
		Nav:        p.nav,
		ActivePath: "/",
		Data:       map[string]any{"Sections": sections},
	}
}

// Topic renders the article for a /topics/... path, or a placeholder
// when the topic exists but has no article yet.
func (p *Public) Topic(w http.ResponseWriter, r *http.Request) {
	slugPath := splitTopicPath(chi.URLParam(r, "*"))

	c, ok := p.index.TopicMetadata(slugPath)
	if !ok {
		p.NotFound(w, r)
		return
	}

	if render.IsHTMX(r) {
		data, err := p.topicData(r, c, slugPath)
		if err != nil {
			p.serverError(w, r, err)
			return
		}
		p.renderer.Page(w, r, http.StatusOK, "topic", data)
		return
	}

	p.serveCached(w, r, cache.TopicKey(slugPath), func() ([]byte, error) {
		data, err := p.topicData(r, c, slugPath)
		if err != nil {
			return nil, err
		}
		return p.renderer.Bytes("topic", data)
	})
}

func (p *Public) topicData(r *http.Request, c *models.Category, slugPath []string) (*render.PageData, error) {
	doc, err := p.library.Load(r.Context(), slugPath)
	switch {
	case errors.Is(err, content.ErrNotFound):
		doc = nil
	case err != nil:
		return nil, err
	}

	children := p.index.Children(c)
	links := make([]models.TopicLink, 0, len(children))
	for _, child := range children {
		links = append(links, models.TopicLink{
			Title: child.Title,
			Href:  p.index.Href(child),
			Slugs: p.index.SlugPath(child),
		})
	}

	prev, next := p.index.PrevNext(slugPath)
	href := taxonomy.HrefFor(slugPath)

	title, desc := c.Title, c.Description
	if doc != nil && doc.Meta.Description != "" {
		desc = doc.Meta.Description
	}

	return &render.PageData{
		Title:       title,
		Description: desc,
		Nav:         p.nav,
		ActivePath:  href,
		Data: map[string]any{
			"Category":    c,
			"Breadcrumbs": p.index.Breadcrumbs(c),
			"Doc":         doc,
			"Children":    links,
			"Prev":        p.index.TopicLink(prev),
			"Next":        p.index.TopicLink(next),
		},
	}, nil
}

// SearchPage renders full search results grouped by root topic.
func (p *Public) SearchPage(w http.ResponseWriter, r *http.Request) {
	q := normalizeQuery(r.URL.Query().Get("q"))
	results := p.search("page", q, search.PageLimit)

	p.renderer.Page(w, r, http.StatusOK, "search", &render.PageData{
		Title:      "Search",
		Nav:        p.nav,
		ActivePath: "/search",
		Query:      q,
		Data: map[string]any{
			"Groups": search.Group(results, p.index),
			"Total":  len(results),
		},
	})
}

// QuickSearch renders the header dropdown. The browser sends the previous
// highlight index as sel and the key pressed as key; the new index is
// clamped to the fresh result list.
func (p *Public) QuickSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := normalizeQuery(params.Get("q"))
	results := p.search("quick", q, search.QuickLimit)

	sel := search.NewSelection(len(results))
	if key := params.Get("key"); key != "" {
		sel.Index = parseSelection(params.Get("sel"))
		sel.Clamp()
		sel.Key(key)
	}

	p.renderer.Page(w, r, http.StatusOK, "quick", &render.PageData{
		Query: strings.TrimSpace(q),
		Data: map[string]any{
			"Results":   results,
			"Selection": sel,
		},
	})
}

// searchResponse is the JSON body of the search API.
type searchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []models.SearchResult `json:"results"`
}

// SearchAPI returns search results as JSON.
func (p *Public) SearchAPI(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := normalizeQuery(params.Get("q"))
	results := p.search("api", q, parseLimit(params.Get("limit")))
	if results == nil {
		results = []models.SearchResult{}
	}

	writeJSON(w, http.StatusOK, searchResponse{Query: q, Count: len(results), Results: results})
}

// NotFound renders the 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: "Not found",
		Nav:   p.nav,
		Data:  map[string]any{"Path": r.URL.Path},
	})
}

func (p *Public) search(surface, q string, limit int) []models.SearchResult {
	results := search.Search(q, p.items, limit)
	if strings.TrimSpace(q) != "" {
		outcome := "hit"
		if len(results) == 0 {
			outcome = "empty"
		}
		p.searches.WithLabelValues(surface, outcome).Inc()
	}
	return results
}

// serveCached writes a full page from the L2 cache, rendering and storing
// it on a miss. A matching If-None-Match yields 304.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string, build func() ([]byte, error)) {
	ctx := r.Context()

	page, ok := p.pageCache.Get(ctx, key)
	if !ok {
		body, err := build()
		if err != nil {
			p.serverError(w, r, err)
			return
		}
		page = cache.NewPage(body)
		p.pageCache.Set(ctx, key, page)
	}

	w.Header().Set("ETag", page.ETag)
	w.Header().Add("Vary", "HX-Request")
	if match := r.Header.Get("If-None-Match"); match != "" && match == page.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page.Body)
}

func (p *Public) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "error", err, "path", r.URL.Path)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// HighlightCSS serves the stylesheet for highlighted code blocks.
func HighlightCSS(css []byte) http.HandlerFunc {
	etag := cache.ETag(css)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(css)
	}
}
