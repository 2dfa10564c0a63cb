// FILE: lixenwraith/conftree/loader.go
package conftree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// DefaultMaxFileSize bounds files read by Load and Reload.
const DefaultMaxFileSize = 10 << 20

// CacheOptions configures a Cache
type CacheOptions struct {
	// Logger receives load, reload and duplicate-section events
	Logger zerolog.Logger

	// Registerer receives the cache metrics (nil = no metrics)
	Registerer prometheus.Registerer

	// StrictSetters makes typed setters return their errors instead of logging them
	StrictSetters bool

	// MaxFileSize rejects larger files on Load (0 = unlimited)
	MaxFileSize int64
}

// DefaultCacheOptions returns options with a silent logger and no metrics
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		Logger:      zerolog.Nop(),
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Cache maps a filename or in-memory id to one shared parsed document.
// Every Config obtained for the same id addresses the same tree.
type Cache struct {
	mutex   sync.Mutex // Held across lookup-or-insert, parse included
	docs    map[string]*document
	opts    CacheOptions
	logger  zerolog.Logger
	metrics *cacheMetrics

	watchMutex sync.Mutex
	watcher    *watcher
}

// NewCache creates an empty cache. A metrics registration failure is logged
// and leaves the cache without metrics.
func NewCache(opts CacheOptions) *Cache {
	logger := opts.Logger.With().Str("component", "conftree").Logger()

	metrics, err := newCacheMetrics(opts.Registerer)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to register cache metrics")
		metrics = &cacheMetrics{}
	}

	return &Cache{
		docs:    make(map[string]*document),
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// Load returns the document cached under filename, reading and parsing the
// file on first use. A missing file matches ErrConfigNotFound. A failed load
// leaves the cache unchanged.
func (c *Cache) Load(filename string) (*Config, error) {
	cfg, inserted, err := c.load(filename)
	if err != nil {
		return nil, err
	}
	if inserted {
		c.watchLoaded(filename)
	}
	return cfg, nil
}

func (c *Cache) load(filename string) (*Config, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if doc, ok := c.docs[filename]; ok {
		c.metrics.recordHit()
		return c.newConfig(doc), false, nil
	}
	c.metrics.recordMiss()

	data, err := c.readFile(filename)
	if err != nil {
		return nil, false, err
	}

	t, err := c.parse(filename, bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}

	doc := c.insert(filename, t)
	c.logger.Info().
		Str("file", filename).
		Int("entries", t.Len()).
		Msg("Configuration loaded")
	return c.newConfig(doc), true, nil
}

// LoadString parses text under id. Without replace an existing entry is
// returned untouched. With replace the text is parsed fresh and swapped in;
// handles rooted at the document see the new content, views into the old
// tree keep the old nodes. A parse failure keeps the previous entry.
func (c *Cache) LoadString(id, text string, replace bool) (*Config, error) {
	return c.LoadReader(id, strings.NewReader(text), replace)
}

// LoadReader is LoadString for an arbitrary reader.
func (c *Cache) LoadReader(id string, r io.Reader, replace bool) (*Config, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	doc, exists := c.docs[id]
	if exists && !replace {
		c.metrics.recordHit()
		return c.newConfig(doc), nil
	}
	c.metrics.recordMiss()

	t, err := c.parse(id, r)
	if err != nil {
		if exists {
			c.metrics.recordReload(err)
		}
		return nil, err
	}

	if exists {
		c.swap(doc, t)
		c.metrics.recordReload(nil)
		return c.newConfig(doc), nil
	}
	return c.newConfig(c.insert(id, t)), nil
}

// Reload re-reads filename and replaces its cached document.
// The file is loaded fresh when it is not cached yet.
func (c *Cache) Reload(filename string) (*Config, error) {
	cfg, inserted, err := c.reload(filename)
	if err != nil {
		return nil, err
	}
	if inserted {
		c.watchLoaded(filename)
	}
	return cfg, nil
}

func (c *Cache) reload(filename string) (*Config, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	doc, exists := c.docs[filename]

	data, err := c.readFile(filename)
	if err == nil {
		var t *Tree
		if t, err = c.parse(filename, bytes.NewReader(data)); err == nil {
			if exists {
				c.swap(doc, t)
			} else {
				doc = c.insert(filename, t)
			}
		}
	}
	c.metrics.recordReload(err)

	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("file", filename).
			Msg("Reload failed, keeping previous configuration")
		return nil, false, err
	}

	c.logger.Info().Str("file", filename).Msg("Configuration reloaded")
	return c.newConfig(doc), !exists, nil
}

// Get returns the cached document for id without loading it.
func (c *Cache) Get(id string) (*Config, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return c.newConfig(doc), true
}

// Evict drops id from the cache. Existing handles keep working on the evicted document.
func (c *Cache) Evict(id string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.docs[id]; !ok {
		return false
	}
	delete(c.docs, id)
	c.metrics.setDocuments(len(c.docs))
	c.logger.Debug().Str("file", id).Msg("Configuration evicted")
	return true
}

// Names returns the cached ids in sorted order.
func (c *Cache) Names() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	names := make([]string, 0, len(c.docs))
	for name := range c.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.docs)
}

// newConfig creates a root handle for doc.
func (c *Cache) newConfig(doc *document) *Config {
	return &Config{
		name:          doc.filename,
		doc:           doc,
		logger:        c.logger,
		strictSetters: c.opts.StrictSetters,
	}
}

// insert stores a freshly parsed tree. Callers hold c.mutex.
func (c *Cache) insert(id string, t *Tree) *document {
	doc := &document{filename: id, root: t}
	c.docs[id] = doc
	c.metrics.setDocuments(len(c.docs))
	return doc
}

// swap replaces the root of an existing document under its write lock.
func (c *Cache) swap(doc *document, t *Tree) {
	doc.mutex.Lock()
	doc.root = t
	doc.mutex.Unlock()
	c.logger.Debug().Str("file", doc.filename).Msg("Configuration replaced")
}

func (c *Cache) parse(id string, r io.Reader) (*Tree, error) {
	p := NewParser(id, c.logger)
	t, err := p.Parse(r)
	c.metrics.recordParse(err, len(p.Duplicates()))
	if err != nil {
		c.logger.Error().Err(err).Str("file", id).Msg("Failed to parse configuration")
		return nil, err
	}
	return t, nil
}

// readFile reads filename, honoring MaxFileSize.
func (c *Cache) readFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, filename)
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", filename, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path '%s' is a directory", filename)
	}

	maxSize := c.opts.MaxFileSize
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("config file '%s' exceeds maximum size %d bytes", filename, maxSize)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file '%s': %w", filename, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filename, err)
	}
	return data, nil
}
