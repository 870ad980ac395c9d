package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"voiceaikb/internal/models"
	"voiceaikb/internal/search"
	"voiceaikb/internal/taxonomy"
)

// Run executes the slugs command.
func (c *SlugsCmd) Run(deps *Dependencies) error {
	_, idx, err := loadTaxonomy(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	for _, p := range idx.AllTopicSlugs() {
		fmt.Fprintf(deps.Stdout, "%s\t%s\n", strings.Join(p, "/"), taxonomy.HrefFor(p))
	}
	return nil
}

// Run executes the tree command.
func (c *TreeCmd) Run(deps *Dependencies) error {
	_, idx, err := loadTaxonomy(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	printTree(deps.Stdout, idx.NavigationTree(), 0)
	return nil
}

func printTree(w io.Writer, nodes []models.NavNode, depth int) {
	for _, n := range nodes {
		icon := ""
		if g := n.Icon.Glyph(); g != "" {
			icon = g + " "
		}
		fmt.Fprintf(w, "%s%s%s  %s\n", strings.Repeat("  ", depth), icon, n.Title, n.Href)
		printTree(w, n.Children, depth+1)
	}
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	_, idx, err := loadTaxonomy(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	results := search.Search(c.Query, idx.SearchItems(), c.Limit)
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No topics found.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	for _, g := range search.Group(results, idx) {
		fmt.Fprintf(tw, "%s\n", g.RootTitle)
		for _, r := range g.Results {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.Category.Title, r.MatchType, r.Href)
		}
	}
	return tw.Flush()
}
