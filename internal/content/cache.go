// cache.go provides an in-memory cache of rendered articles. This is the
// L1 cache: it avoids re-running the Markdown pipeline for an article whose
// file has not changed. Entries are keyed by topic path and a hash of the
// raw file, so an edited article misses automatically.
package content

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"voiceaikb/internal/models"
)

// docKey uniquely identifies one revision of an article.
type docKey struct {
	path string
	sum  uint64
}

// docCache is a concurrency-safe in-memory cache of rendered documents.
type docCache struct {
	mu      sync.RWMutex
	entries map[docKey]*models.Document
}

func newDocCache() *docCache {
	return &docCache{entries: make(map[docKey]*models.Document)}
}

func keyFor(slugPath []string, raw []byte) docKey {
	return docKey{path: strings.Join(slugPath, "/"), sum: xxhash.Sum64(raw)}
}

// get retrieves a rendered document. Returns nil on miss.
func (c *docCache) get(k docKey) *models.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[k]
}

// put stores a rendered document, dropping older revisions of the same path.
func (c *docCache) put(k docKey, doc *models.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for old := range c.entries {
		if old.path == k.path {
			delete(c.entries, old)
		}
	}
	c.entries[k] = doc
	slog.Debug("article cached", "path", k.path, "size", len(c.entries))
}

// len returns the number of cached documents.
func (c *docCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
