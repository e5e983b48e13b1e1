package report

import (
	"container/list"
	"os"
	"sync"
	"time"
)

// CacheConfig contains configuration options for the template cache
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
}

// TemplateCache caches template package bytes by file path so that
// repeated report creation from the same template skips disk reads.
// Cached bytes are never mutated, every Report parses its own copy.
type TemplateCache struct {
	mu     sync.RWMutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
}

type cacheEntry struct {
	key     string
	data    []byte
	expiry  time.Time
	element *list.Element
}

// NewTemplateCache creates a new template cache with the global configuration
func NewTemplateCache() *TemplateCache {
	config := GetGlobalConfig()
	return NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewTemplateCacheWithConfig creates a new template cache with the given configuration
func NewTemplateCacheWithConfig(config CacheConfig) *TemplateCache {
	return &TemplateCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
	}
}

// Load returns the template bytes for path, reading the file on a cache miss.
func (tc *TemplateCache) Load(path string) ([]byte, error) {
	if data, ok := tc.Get(path); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}

	tc.Set(path, data)
	return data, nil
}

// Get retrieves template bytes from the cache
func (tc *TemplateCache) Get(key string) ([]byte, bool) {
	tc.mu.RLock()
	entry, exists := tc.cache[key]
	tc.mu.RUnlock()

	if !exists {
		return nil, false
	}

	// Check expiry
	if tc.config.TTL > 0 && time.Now().After(entry.expiry) {
		tc.Remove(key)
		return nil, false
	}

	// Move to front of LRU
	tc.mu.Lock()
	tc.lru.MoveToFront(entry.element)
	tc.mu.Unlock()

	return entry.data, true
}

// Set adds template bytes to the cache
func (tc *TemplateCache) Set(key string, data []byte) {
	// Check if caching is disabled
	if tc.config.MaxSize == 0 {
		return
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Check if key already exists
	if existing, exists := tc.cache[key]; exists {
		existing.data = data
		if tc.config.TTL > 0 {
			existing.expiry = time.Now().Add(tc.config.TTL)
		}
		tc.lru.MoveToFront(existing.element)
		return
	}

	// Check if we need to evict
	if tc.lru.Len() >= tc.config.MaxSize {
		oldest := tc.lru.Back()
		if oldest != nil {
			oldEntry := oldest.Value.(*cacheEntry)
			delete(tc.cache, oldEntry.key)
			tc.lru.Remove(oldest)
		}
	}

	expiry := time.Time{}
	if tc.config.TTL > 0 {
		expiry = time.Now().Add(tc.config.TTL)
	}

	entry := &cacheEntry{
		key:    key,
		data:   data,
		expiry: expiry,
	}

	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry
}

// Remove removes a template from the cache
func (tc *TemplateCache) Remove(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists {
		return
	}

	tc.lru.Remove(entry.element)
	delete(tc.cache, key)
}

// Clear removes all templates from the cache
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache = make(map[string]*cacheEntry)
	tc.lru.Init()
}

// Len returns the number of cached templates
func (tc *TemplateCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.lru.Len()
}

// SetConfig replaces the cache configuration. Entries beyond the new
// maximum size are evicted, oldest first.
func (tc *TemplateCache) SetConfig(config CacheConfig) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.config = config

	if config.MaxSize == 0 {
		tc.cache = make(map[string]*cacheEntry)
		tc.lru.Init()
		return
	}

	for tc.lru.Len() > config.MaxSize {
		oldest := tc.lru.Back()
		oldEntry := oldest.Value.(*cacheEntry)
		delete(tc.cache, oldEntry.key)
		tc.lru.Remove(oldest)
	}
}

// Config returns the cache configuration in effect.
func (tc *TemplateCache) Config() CacheConfig {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.config
}

var (
	defaultCache     *TemplateCache
	defaultCacheOnce sync.Once
)

// defaultTemplateCache returns the process-wide template cache used by
// Open and FromTemplate. It is created on first use, after the global
// configuration has been loaded from the environment.
func defaultTemplateCache() *TemplateCache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewTemplateCache()
	})
	return defaultCache
}

// updateDefaultCacheFromConfig applies the global cache settings to the
// default cache. Called by SetGlobalConfig.
func updateDefaultCacheFromConfig() {
	config := GetGlobalConfig()
	defaultTemplateCache().SetConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}
