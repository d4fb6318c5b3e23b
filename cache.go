package pubcontent

import (
	"sync"
	"time"
)

// EntryCache is an in-memory cache of indexed entries and tags with TTL.
type EntryCache struct {
	mu      sync.RWMutex
	entries []Entry
	tags    []string
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewEntryCache creates an EntryCache backed by the given Store.
func NewEntryCache(s *Store, ttl time.Duration) *EntryCache {
	return &EntryCache{store: s, ttl: ttl}
}

func (c *EntryCache) valid() bool {
	return c.entries != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *EntryCache) Invalidate() {
	c.mu.Lock()
	c.entries = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *EntryCache) load() error {
	if c.valid() {
		return nil
	}
	entries, err := c.store.ListEntries("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	c.entries = entries
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// ensureLoaded tries a read lock first and only takes the write lock when a
// reload is needed.
func (c *EntryCache) ensureLoaded() ([]Entry, []string, error) {
	c.mu.RLock()
	if c.valid() {
		entries, tags := c.entries, c.tags
		c.mu.RUnlock()
		return entries, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.entries, c.tags, nil
}

// ListEntries returns indexed entries, optionally filtered by tag.
func (c *EntryCache) ListEntries(tag string) ([]Entry, error) {
	entries, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return entries, nil
	}
	filtered := []Entry{}
	for _, e := range entries {
		if HasTag(e.Data.Tags, tag) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags in the index.
func (c *EntryCache) ListTags() ([]string, error) {
	_, tags, err := c.ensureLoaded()
	return tags, err
}

// GetEntry returns a single entry by slug from the cache.
func (c *EntryCache) GetEntry(slug string) (Entry, error) {
	entries, _, err := c.ensureLoaded()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.Slug == slug {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}
