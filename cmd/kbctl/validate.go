package main

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"voiceaikb/internal/content"
	"voiceaikb/internal/taxonomy"
)

// articleResult is the outcome of rendering one topic's article.
type articleResult struct {
	path []string
	err  error
}

// Run executes the validate command.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	cats, idx, err := loadTaxonomy(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	var errs, warnings int
	for _, issue := range taxonomy.Lint(cats) {
		fmt.Fprintln(deps.Stdout, issue)
		if issue.Severity == taxonomy.SeverityError {
			errs++
		} else {
			warnings++
		}
	}

	src, err := openContent(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	paths := idx.AllTopicSlugs()
	results := make([]articleResult, len(paths))
	lib := content.NewLibrary(src)

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(1, c.Concurrency))
	for i, p := range paths {
		g.Go(func() error {
			_, err := lib.Load(ctx, p)
			results[i] = articleResult{path: p, err: err}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var rendered, missing int
	known := make(map[string]bool)
	for _, r := range results {
		for _, name := range content.Candidates(r.path) {
			known[name] = true
		}
		switch {
		case r.err == nil:
			rendered++
		case errors.Is(r.err, content.ErrNotFound):
			missing++
			if c.Strict {
				fmt.Fprintf(deps.Stdout, "warning: %s: no article\n", strings.Join(r.path, "/"))
			}
		default:
			errs++
			fmt.Fprintf(deps.Stdout, "error: %s: %s\n", strings.Join(r.path, "/"), r.err)
		}
	}

	strays, err := strayArticles(deps, src, known)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	for _, name := range strays {
		warnings++
		fmt.Fprintf(deps.Stdout, "warning: %s: article matches no topic\n", name)
	}

	fmt.Fprintf(deps.Stdout, "%d topics, %d articles rendered, %d missing, %d errors, %d warnings\n",
		len(paths), rendered, missing, errs, warnings)

	if errs > 0 || (c.Strict && (warnings > 0 || missing > 0)) {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// strayArticles lists article files that no topic path maps to.
func strayArticles(deps *Dependencies, src content.Lister, known map[string]bool) ([]string, error) {
	names, err := src.Articles(deps.Ctx)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", deps.Content, err)
	}
	var strays []string
	for _, name := range names {
		if !known[name] {
			strays = append(strays, name)
		}
	}
	return strays, nil
}
