// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy turns the flat, parent-referenced category list into an
// index that answers navigation, breadcrumb, pagination and lookup queries.
// An Index is built once per load and is read-only afterwards, so it can be
// shared by all request handlers without locking.
package taxonomy

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"voiceaikb/internal/models"
)

// BasePath prefixes every topic URL.
const BasePath = "/topics"

// ErrCycle is returned by New when following parent references from some
// category leads back to that category.
var ErrCycle = errors.New("taxonomy: parent cycle")

// plainText strips markup from descriptions before they reach search items.
var plainText = bluemonday.StrictPolicy()

// Index is the queryable form of a taxonomy.
type Index struct {
	categories []models.Category             // source order, used for pagination
	byID       map[string]*models.Category   // last write wins on duplicate ids
	children   map[string][]*models.Category // keyed by resolved parent id
	roots      []*models.Category            // roots and orphans
}

// New indexes the given categories. Input order is preserved for
// AllTopicSlugs; children are sorted by Order with ties kept in input order.
// Dangling parent references are tolerated and make the node a root.
func New(categories []models.Category) (*Index, error) {
	idx := &Index{
		categories: make([]models.Category, len(categories)),
		byID:       make(map[string]*models.Category, len(categories)),
		children:   make(map[string][]*models.Category),
	}
	copy(idx.categories, categories)

	for i := range idx.categories {
		c := &idx.categories[i]
		if _, dup := idx.byID[c.ID]; dup {
			slog.Warn("duplicate category id, later entry wins", "id", c.ID)
		}
		idx.byID[c.ID] = c
	}

	for i := range idx.categories {
		c := &idx.categories[i]
		if p := idx.parent(c); p != nil {
			idx.children[p.ID] = append(idx.children[p.ID], c)
		} else {
			idx.roots = append(idx.roots, c)
		}
	}

	sortByOrder(idx.roots)
	for _, list := range idx.children {
		sortByOrder(list)
	}

	if err := idx.checkAcyclic(); err != nil {
		return nil, err
	}

	slog.Debug("taxonomy indexed", "categories", len(idx.categories), "roots", len(idx.roots))
	return idx, nil
}

func sortByOrder(list []*models.Category) {
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Order < list[b].Order
	})
}

// parent returns the resolved parent of c, or nil for roots and orphans.
func (idx *Index) parent(c *models.Category) *models.Category {
	if c.ParentID == nil {
		return nil
	}
	return idx.byID[*c.ParentID]
}

// checkAcyclic walks every parent chain with a step budget of len(byID).
// A chain that is still going after that many steps must revisit a node.
func (idx *Index) checkAcyclic() error {
	limit := len(idx.byID)
	for _, c := range idx.byID {
		steps := 0
		for p := idx.parent(c); p != nil; p = idx.parent(p) {
			steps++
			if steps > limit {
				return fmt.Errorf("%w: starting at category %q", ErrCycle, c.ID)
			}
		}
	}
	return nil
}

// ancestry returns c and its ancestors ordered root first.
func (idx *Index) ancestry(c *models.Category) []*models.Category {
	chain := []*models.Category{c}
	for p := idx.parent(c); p != nil && len(chain) <= len(idx.byID); p = idx.parent(p) {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Len returns the number of distinct category ids.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// ByID looks up a category by id.
func (idx *Index) ByID(id string) (*models.Category, bool) {
	c, ok := idx.byID[id]
	return c, ok
}

// Roots returns the top-level categories, orphans included, in Order.
func (idx *Index) Roots() []*models.Category {
	return idx.roots
}

// Children returns the direct children of c in Order.
func (idx *Index) Children(c *models.Category) []*models.Category {
	return idx.children[c.ID]
}

// Root returns the ultimate ancestor of c (c itself for a root).
func (idx *Index) Root(c *models.Category) *models.Category {
	return idx.ancestry(c)[0]
}

// SlugPath returns the slugs from the root down to c.
func (idx *Index) SlugPath(c *models.Category) []string {
	chain := idx.ancestry(c)
	slugs := make([]string, len(chain))
	for i, a := range chain {
		slugs[i] = a.Slug
	}
	return slugs
}

// Href builds the topic URL of c by walking its parent chain.
func (idx *Index) Href(c *models.Category) string {
	return HrefFor(idx.SlugPath(c))
}

// HrefFor joins a slug path under BasePath.
func HrefFor(slugPath []string) string {
	return BasePath + "/" + strings.Join(slugPath, "/")
}

// Breadcrumbs returns the (label, href) chain from the root down to c.
func (idx *Index) Breadcrumbs(c *models.Category) []models.Breadcrumb {
	chain := idx.ancestry(c)
	crumbs := make([]models.Breadcrumb, len(chain))
	href := BasePath
	for i, a := range chain {
		href += "/" + a.Slug
		crumbs[i] = models.Breadcrumb{Label: a.Title, Href: href}
	}
	return crumbs
}

// NavigationTree builds the navigation tree top-down from the roots.
func (idx *Index) NavigationTree() []models.NavNode {
	return idx.navLevel(idx.roots, BasePath)
}

func (idx *Index) navLevel(list []*models.Category, base string) []models.NavNode {
	nodes := make([]models.NavNode, 0, len(list))
	for _, c := range list {
		href := base + "/" + c.Slug
		nodes = append(nodes, models.NavNode{
			ID:       c.ID,
			Title:    c.Title,
			Href:     href,
			Icon:     c.Icon,
			Children: idx.navLevel(idx.children[c.ID], href),
		})
	}
	return nodes
}

// TopicMetadata resolves a slug path to its category. An empty path, or a
// path with any segment that has no matching child, is not found.
func (idx *Index) TopicMetadata(slugPath []string) (*models.Category, bool) {
	if len(slugPath) == 0 {
		return nil, false
	}
	var current *models.Category
	level := idx.roots
	for _, seg := range slugPath {
		current = nil
		for _, c := range level {
			if c.Slug == seg {
				current = c
				break
			}
		}
		if current == nil {
			return nil, false
		}
		level = idx.children[current.ID]
	}
	return current, true
}

// AllTopicSlugs returns the slug path of every category in source order.
// This order, not the navigation order, drives previous/next links.
func (idx *Index) AllTopicSlugs() [][]string {
	all := make([][]string, 0, len(idx.categories))
	for i := range idx.categories {
		all = append(all, idx.SlugPath(&idx.categories[i]))
	}
	return all
}

// PrevNext returns the slug paths adjacent to slugPath in AllTopicSlugs.
// Either result is nil at the ends of the list or when slugPath is unknown.
func (idx *Index) PrevNext(slugPath []string) (prev, next []string) {
	all := idx.AllTopicSlugs()
	key := strings.Join(slugPath, "/")
	pos := -1
	for i, s := range all {
		if strings.Join(s, "/") == key {
			pos = i
			break
		}
	}
	if pos == -1 {
		return nil, nil
	}
	if pos > 0 {
		prev = all[pos-1]
	}
	if pos+1 < len(all) {
		next = all[pos+1]
	}
	return prev, next
}

// TopicLink resolves a slug path into a link with the topic's title.
// It returns nil for a nil path or an unresolvable one.
func (idx *Index) TopicLink(slugPath []string) *models.TopicLink {
	if slugPath == nil {
		return nil
	}
	c, ok := idx.TopicMetadata(slugPath)
	if !ok {
		return nil
	}
	return &models.TopicLink{Title: c.Title, Href: HrefFor(slugPath), Slugs: slugPath}
}

// SearchItems flattens the taxonomy for search in source order.
func (idx *Index) SearchItems() []models.SearchItem {
	items := make([]models.SearchItem, 0, len(idx.categories))
	for i := range idx.categories {
		c := idx.categories[i]
		c.Description = html.UnescapeString(plainText.Sanitize(c.Description))
		item := models.SearchItem{Category: c, Href: idx.Href(&idx.categories[i])}
		if p := idx.parent(&idx.categories[i]); p != nil {
			item.ParentTitle = p.Title
		}
		items = append(items, item)
	}
	return items
}

// RootOf returns the root ancestor of the category with the given id.
// Unknown ids resolve to nil.
func (idx *Index) RootOf(id string) *models.Category {
	c, ok := idx.byID[id]
	if !ok {
		return nil
	}
	return idx.Root(c)
}
