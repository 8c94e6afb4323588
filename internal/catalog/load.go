package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/altinukshini/enablehub/internal/api"
	"github.com/altinukshini/enablehub/internal/cache"
)

// ErrNotFound is returned when the catalog repository has no file at the
// configured path and ref.
var ErrNotFound = errors.New("catalog not found")

// Source says where the catalog comes from. File wins over Repo; with
// neither set the built-in catalog is used.
type Source struct {
	File string
	Repo string // owner/repo
	Path string // file path inside Repo
	Ref  string
}

func (s Source) String() string {
	switch {
	case s.File != "":
		return s.File
	case s.Repo != "":
		return cache.Key{Repo: s.Repo, Path: s.Path, Ref: s.Ref}.String()
	default:
		return "built-in"
	}
}

// Fetcher downloads a file from the catalog repository.
type Fetcher interface {
	FetchFile(ctx context.Context, path, ref string) ([]byte, error)
}

type Loader struct {
	fetcher Fetcher
	cache   *cache.CatalogCache
	logger  *slog.Logger
}

// NewLoader returns a loader. fetcher and cache may be nil when only local
// or built-in catalogs are used.
func NewLoader(fetcher Fetcher, cc *cache.CatalogCache, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fetcher: fetcher, cache: cc, logger: logger}
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (l *Loader) Load(ctx context.Context, src Source) (*Catalog, error) {
	switch {
	case src.File != "":
		c, err := LoadFile(src.File)
		if err != nil {
			return nil, err
		}
		l.logger.Info("catalog loaded", "source", src.String(), "items", len(c.Items), "actions", len(c.Actions))
		return c, nil
	case src.Repo != "":
		return l.loadRemote(ctx, src)
	default:
		return Default()
	}
}

func (l *Loader) loadRemote(ctx context.Context, src Source) (*Catalog, error) {
	format, err := FormatFromPath(src.Path)
	if err != nil {
		return nil, err
	}
	key := cache.Key{Repo: src.Repo, Path: src.Path, Ref: src.Ref}

	if l.cache != nil && l.cache.Has(key) {
		if data, err := l.cache.Load(key, false); err == nil {
			if c, err := Decode(data, format); err == nil {
				l.logger.Debug("catalog cache hit", "key", key.String())
				return c, nil
			}
			l.logger.Warn("discarding unreadable cached catalog", "key", key.String())
			if err := l.cache.DeleteEntry(key); err != nil {
				l.logger.Warn("failed to delete cached catalog", "key", key.String(), "error", err)
			}
		}
	}

	if l.fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", key)
	}

	data, fetchErr := l.fetcher.FetchFile(ctx, src.Path, src.Ref)
	if fetchErr == nil {
		c, err := Decode(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if l.cache != nil {
			if err := l.cache.Store(key, data, cache.CacheMeta{Format: string(format), Items: len(c.Items)}); err != nil {
				l.logger.Warn("failed to cache catalog", "key", key.String(), "error", err)
			}
			if err := l.cache.Evict(); err != nil {
				l.logger.Warn("catalog cache eviction failed", "error", err)
			}
		}
		l.logger.Info("catalog fetched", "key", key.String(), "items", len(c.Items), "actions", len(c.Actions))
		return c, nil
	}

	if l.cache != nil {
		if data, err := l.cache.Load(key, true); err == nil {
			if c, err := Decode(data, format); err == nil {
				l.logger.Warn("using stale cached catalog", "key", key.String(), "error", fetchErr)
				return c, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			l.logger.Warn("reading stale catalog failed", "key", key.String(), "error", err)
		}
	}
	if api.IsNotFound(fetchErr) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, key, fetchErr)
	}
	return nil, fmt.Errorf("fetch catalog %s: %w", key, fetchErr)
}
