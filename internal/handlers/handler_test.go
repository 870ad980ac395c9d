// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// The taxonomy and articles live in memory; tests that need Valkey are
// skipped when it is unavailable.
package handlers

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"voiceaikb/internal/cache"
	"voiceaikb/internal/content"
	"voiceaikb/internal/models"
	"voiceaikb/internal/render"
	"voiceaikb/internal/taxonomy"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func strPtr(s string) *string { return &s }

// testCategories is a small taxonomy: two roots, one with children.
func testCategories() []models.Category {
	return []models.Category{
		{ID: "asr", Title: "Speech Recognition", Slug: "asr", Description: "Turning <em>audio</em> into text.", Order: 1, Tags: []string{"stt"}, Icon: models.IconMic},
		{ID: "ctc", Title: "CTC Decoding", Slug: "ctc", Description: "Alignment-free decoding.", ParentID: strPtr("asr"), Order: 1, Tags: []string{"decoding"}},
		{ID: "beam", Title: "Beam Search", Slug: "beam-search", Description: "Keeps the best hypotheses.", ParentID: strPtr("asr"), Order: 2, Tags: []string{"decoding"}},
		{ID: "tts", Title: "Speech Synthesis", Slug: "tts", Description: "Generating speech from text.", Order: 2, Icon: models.IconWaveform},
	}
}

// testArticles holds articles for some, not all, topics.
func testArticles() fstest.MapFS {
	return fstest.MapFS{
		"asr/ctc.mdx":         {Data: []byte("---\ntitle: CTC Decoding\ndescription: How CTC collapses frames.\ndifficulty: intermediate\n---\n\n## Greedy decoding\n\nCollapse repeats, then drop blanks.\n\n<Callout type=\"tip\">Use beam search for accuracy.</Callout>\n")},
		"asr/beam-search.mdx": {Data: []byte("# Beam\n\n<Widget>unknown component</Widget>\n")},
	}
}

// testValkeyClient connects to Valkey DB 15 and skips when it is not
// reachable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client, err := cache.ConnectValkey(context.Background(), cache.ValkeyOptions{
		Host:     envOr("VALKEY_HOST", "localhost"),
		Port:     envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	t.Cleanup(func() {
		cache.NewPageCache(client, 0).InvalidateAll(context.Background())
		client.Close()
	})
	return client
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Index     *taxonomy.Index
	Renderer  *render.Renderer
	PageCache *cache.PageCache
	Registry  *prometheus.Registry
	Public    *Public
}

// newTestEnv creates a handler environment without a page cache.
func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, pc *cache.PageCache) *testEnv {
	t.Helper()

	idx, err := taxonomy.New(testCategories())
	if err != nil {
		t.Fatalf("taxonomy.New: %v", err)
	}

	rn, err := render.New("Voice AI KB")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	reg := prometheus.NewRegistry()
	lib := content.NewLibrary(content.NewFSSource(testArticles()))

	return &testEnv{
		Index:     idx,
		Renderer:  rn,
		PageCache: pc,
		Registry:  reg,
		Public:    NewPublic(idx, lib, rn, pc, reg),
	}
}
