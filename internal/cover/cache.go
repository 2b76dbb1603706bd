// Package cover implements the cover-art component: a three-axis cache
// (by track, by source path, by content hash) plus image extraction and
// scaling dispatch. The cache is one owning slice of entries and three
// index maps pointing to entry indices, per the redesign flag in §9 —
// never separate per-axis maps of full entries.
package cover

import (
	"strings"
	"sync"

	"github.com/arung-agamani/aimpctl/internal/player"
)

// Entry is a cover cache entry: a non-empty list of generated URIs for one
// track, indexable additionally by source path and content hash.
type Entry struct {
	Desc        player.TrackDescription
	SourcePath  string
	ContentHash string
	URIs        []string // filenames embed "WxH" for size-specific lookup
}

// Cache owns all entries for the process lifetime; entries are never
// deleted mid-session, only at the startup wipe (Reset).
type Cache struct {
	mu      sync.Mutex
	entries []Entry
	byDesc  map[player.TrackDescription]int
	byPath  map[string]int
	byHash  map[string]int
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{
		byDesc: make(map[player.TrackDescription]int),
		byPath: make(map[string]int),
		byHash: make(map[string]int),
	}
}

// Reset empties the cache; called once at startup after the cover
// directory itself is emptied and recreated.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.byDesc = make(map[player.TrackDescription]int)
	c.byPath = make(map[string]int)
	c.byHash = make(map[string]int)
}

func sizeTag(w, h int) string {
	return sizeTagString(w, h)
}

// LookupByDesc probes the cache by TrackDescription, filtering by "WxH"
// substring among the entry's URIs.
func (c *Cache) LookupByDesc(desc player.TrackDescription, w, h int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.byDesc[desc]
	if !ok {
		return "", false
	}
	return findBySize(c.entries[idx], w, h)
}

// LookupByPath probes the cache by source file path.
func (c *Cache) LookupByPath(path string, w, h int) (string, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.byPath[path]
	if !ok {
		return "", -1, false
	}
	uri, found := findBySize(c.entries[idx], w, h)
	return uri, idx, found
}

// LookupByHash probes the cache by content hash.
func (c *Cache) LookupByHash(hash string, w, h int) (string, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.byHash[hash]
	if !ok {
		return "", -1, false
	}
	uri, found := findBySize(c.entries[idx], w, h)
	return uri, idx, found
}

func findBySize(e Entry, w, h int) (string, bool) {
	tag := sizeTag(w, h)
	for _, uri := range e.URIs {
		if strings.Contains(uri, tag) {
			return uri, true
		}
	}
	return "", false
}

// entryIndexFor returns the entry index for desc/path/hash, creating a new
// entry if none of the three axes currently has one.
func (c *Cache) entryIndexFor(desc player.TrackDescription, path, hash string) int {
	if idx, ok := c.byDesc[desc]; ok {
		return idx
	}
	if path != "" {
		if idx, ok := c.byPath[path]; ok {
			return idx
		}
	}
	if hash != "" {
		if idx, ok := c.byHash[hash]; ok {
			return idx
		}
	}
	c.entries = append(c.entries, Entry{Desc: desc, SourcePath: path, ContentHash: hash})
	return len(c.entries) - 1
}

// Register adds a newly generated uri to the entry for (desc, path, hash),
// creating the entry if needed and indexing it under every applicable
// axis so a later lookup by any of the three finds the same entry.
func (c *Cache) Register(desc player.TrackDescription, path, hash, uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.entryIndexFor(desc, path, hash)
	c.entries[idx].URIs = append(c.entries[idx].URIs, uri)
	if path != "" && c.entries[idx].SourcePath == "" {
		c.entries[idx].SourcePath = path
	}
	if hash != "" && c.entries[idx].ContentHash == "" {
		c.entries[idx].ContentHash = hash
	}

	c.byDesc[desc] = idx
	if path != "" {
		c.byPath[path] = idx
	}
	if hash != "" {
		c.byHash[hash] = idx
	}
}
