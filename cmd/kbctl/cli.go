package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"voiceaikb/internal/config"
	"voiceaikb/internal/content"
	"voiceaikb/internal/models"
	"voiceaikb/internal/storage"
	"voiceaikb/internal/taxonomy"
)

// Dependencies holds configuration shared by all commands.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	TaxonomyPath string
	Content      string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Taxonomy string `short:"t" env:"TAXONOMY_PATH" default:"data/taxonomy.yaml" help:"Taxonomy file (YAML or JSON)"`
	Content  string `short:"c" env:"CONTENT_DIR" default:"content" help:"Article directory or s3://bucket/prefix"`

	Validate ValidateCmd `cmd:"" help:"Check the taxonomy and render every article"`
	Slugs    SlugsCmd    `cmd:"" help:"List topic paths in pagination order"`
	Tree     TreeCmd     `cmd:"" help:"Print the navigation tree"`
	Search   SearchCmd   `cmd:"" help:"Run a topic search"`
	Import   ImportCmd   `cmd:"" help:"Replace the Postgres categories table with the taxonomy file"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Concurrency int  `short:"j" default:"8" help:"Articles rendered in parallel"`
	Strict      bool `help:"Treat warnings and missing articles as failures"`
}

// SlugsCmd is the "slugs" subcommand.
type SlugsCmd struct{}

// TreeCmd is the "tree" subcommand.
type TreeCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search text"`
	Limit int    `short:"n" default:"20" help:"Maximum results (0 for all)"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct{}

// loadTaxonomy reads the taxonomy file and indexes it.
func loadTaxonomy(deps *Dependencies) ([]models.Category, *taxonomy.Index, error) {
	cats, err := taxonomy.NewFileLoader(deps.TaxonomyPath).Load(deps.Ctx)
	if err != nil {
		return nil, nil, err
	}
	idx, err := taxonomy.New(cats)
	if err != nil {
		return nil, nil, fmt.Errorf("index %s: %w", deps.TaxonomyPath, err)
	}
	return cats, idx, nil
}

// articleSource is a content source that can also enumerate its files.
type articleSource interface {
	content.Source
	content.Lister
}

// openContent opens the article location named by --content. An
// s3://bucket/prefix location uses the S3_* settings from the environment.
func openContent(deps *Dependencies) (articleSource, error) {
	if !strings.HasPrefix(deps.Content, "s3://") {
		return content.NewDirSource(deps.Content), nil
	}

	u, err := url.Parse(deps.Content)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid content location %q", deps.Content)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY are required for s3:// content")
	}
	return content.NewS3Source(client, u.Host, strings.Trim(u.Path, "/")), nil
}
