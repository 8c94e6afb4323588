package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrMiss is returned when no usable entry exists for a key.
var ErrMiss = errors.New("catalog cache miss")

const (
	dataFile = "catalog.data"
	metaFile = "meta.json"
)

// CatalogCache keeps fetched catalog documents on disk so the app can start
// without a network round trip and survive an unreachable GitHub.
type CatalogCache struct {
	dir     string
	maxSize int64         // max total cache size in bytes
	ttl     time.Duration // entry freshness window
	now     func() time.Time
}

// Key identifies a remote catalog document.
type Key struct {
	Repo string
	Path string
	Ref  string
}

func (k Key) String() string {
	ref := k.Ref
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("%s:%s@%s", k.Repo, k.Path, ref)
}

// dirName maps a key to its entry directory: a SHA-1 UUID of the raw fields,
// so distinct keys never share a directory. meta.json keeps the readable form.
func (k Key) dirName() string {
	ref := k.Ref
	if ref == "" {
		ref = "HEAD"
	}
	raw := strings.Join([]string{k.Repo, k.Path, ref}, "\x00")
	return "catalog-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(raw)).String()
}

// CacheMeta stores metadata about a cached catalog document.
type CacheMeta struct {
	Repo     string    `json:"repo"`
	Path     string    `json:"path"`
	Ref      string    `json:"ref"`
	Format   string    `json:"format"`
	Items    int       `json:"items"`
	StoredAt time.Time `json:"stored_at"`
}

// CacheEntry represents a single cached document with computed fields.
type CacheEntry struct {
	CacheMeta
	LastAccessed time.Time
	Size         int64
	Path         string
}

func NewCatalogCache(dir string, maxSizeMB int, ttl time.Duration) (*CatalogCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog cache dir: %w", err)
	}
	return &CatalogCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

func (cc *CatalogCache) Dir() string {
	return cc.dir
}

func (cc *CatalogCache) entryDir(k Key) string {
	return filepath.Join(cc.dir, k.dirName())
}

// Has reports whether a fresh entry exists for k.
func (cc *CatalogCache) Has(k Key) bool {
	info, err := os.Stat(filepath.Join(cc.entryDir(k), dataFile))
	if err != nil {
		return false
	}
	return cc.now().Sub(info.ModTime()) < cc.ttl
}

// Load returns the cached document for k. Expired entries are returned only
// when allowStale is set.
func (cc *CatalogCache) Load(k Key, allowStale bool) ([]byte, error) {
	if !allowStale && !cc.Has(k) {
		return nil, fmt.Errorf("%w: %s", ErrMiss, k)
	}
	data, err := os.ReadFile(filepath.Join(cc.entryDir(k), dataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMiss, k)
		}
		return nil, fmt.Errorf("read cached catalog: %w", err)
	}
	return data, nil
}

// Store writes a document and its metadata for k.
func (cc *CatalogCache) Store(k Key, data []byte, meta CacheMeta) error {
	dir := cc.entryDir(k)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog entry dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataFile), data, 0o644); err != nil {
		return fmt.Errorf("write cached catalog: %w", err)
	}
	meta.Repo, meta.Path, meta.Ref = k.Repo, k.Path, k.Ref
	if meta.StoredAt.IsZero() {
		meta.StoredAt = cc.now()
	}
	return cc.WriteMeta(k, meta)
}

// WriteMeta writes meta.json in the entry's directory.
func (cc *CatalogCache) WriteMeta(k Key, meta CacheMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cc.entryDir(k), metaFile), data, 0o644)
}

// ReadMeta reads meta.json from a cache entry.
func (cc *CatalogCache) ReadMeta(k Key) (*CacheMeta, error) {
	return readMeta(cc.entryDir(k))
}

func readMeta(dir string) (*CacheMeta, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, err
	}
	var meta CacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListEntries scans the cache directory and returns all entries, newest first.
func (cc *CatalogCache) ListEntries() ([]CacheEntry, error) {
	entries, err := os.ReadDir(cc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var result []CacheEntry
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "catalog-") {
			continue
		}
		dirPath := filepath.Join(cc.dir, e.Name())
		entry := CacheEntry{Path: dirPath}
		if meta, err := readMeta(dirPath); err == nil {
			entry.CacheMeta = *meta
		}
		entry.Size = dirSize(dirPath)
		entry.LastAccessed = dirLastModified(dirPath)
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastAccessed.After(result[j].LastAccessed)
	})
	return result, nil
}

// DeleteEntry removes a single cache entry.
func (cc *CatalogCache) DeleteEntry(k Key) error {
	return os.RemoveAll(cc.entryDir(k))
}

// DeleteAll removes all cache entries.
func (cc *CatalogCache) DeleteAll() error {
	entries, err := os.ReadDir(cc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			if err := os.RemoveAll(filepath.Join(cc.dir, e.Name())); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Evict removes the least recently stored entries until the cache fits the
// size cap. Expired entries are kept otherwise: they are the stale fallback
// when a fetch fails.
func (cc *CatalogCache) Evict() error {
	entries, err := cc.ListEntries()
	if err != nil {
		return err
	}

	var totalSize int64
	for _, e := range entries {
		totalSize += e.Size
	}
	if totalSize <= cc.maxSize {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastAccessed.Before(entries[j].LastAccessed)
	})
	var errs []error
	for _, e := range entries {
		if totalSize <= cc.maxSize {
			break
		}
		if err := os.RemoveAll(e.Path); err != nil {
			errs = append(errs, fmt.Errorf("evict %s: %w", e.Path, err))
			continue
		}
		totalSize -= e.Size
	}
	return errors.Join(errs...)
}

// TotalSize returns total cache size in bytes.
func (cc *CatalogCache) TotalSize() (int64, error) {
	var total int64
	err := filepath.Walk(cc.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	return total, nil
}

func dirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func dirLastModified(path string) time.Time {
	var latest time.Time
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	return latest
}
