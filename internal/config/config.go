package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/altinukshini/enablehub/internal/debounce"
)

const (
	DefaultCatalogPath = "catalog.toml"
	DefaultCacheSizeMB = 20
	DefaultCacheTTL    = time.Hour
)

type Config struct {
	CatalogFile string // local catalog; wins over CatalogRepo
	CatalogRepo string // owner/repo hosting a remote catalog
	CatalogPath string
	CatalogRef  string

	CacheDir    string
	CacheTTL    time.Duration
	CacheSizeMB int

	Debounce time.Duration

	LogFile string
	Debug   bool
}

// Default returns a config that loads the built-in catalog.
func Default() Config {
	return Config{
		CatalogPath: DefaultCatalogPath,
		CacheDir:    DefaultCacheDir(),
		CacheTTL:    DefaultCacheTTL,
		CacheSizeMB: DefaultCacheSizeMB,
		Debounce:    debounce.DefaultDelay,
		LogFile:     DefaultLogFile(),
	}
}

func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "enablehub", "catalogs")
}

func DefaultLogFile() string {
	return filepath.Join(os.TempDir(), "enablehub.log")
}

// ApplyEnv applies environment overrides. ENABLEHUB_DEBUG=1 turns on debug logging.
func (c *Config) ApplyEnv() {
	if os.Getenv("ENABLEHUB_DEBUG") == "1" {
		c.Debug = true
	}
}

// SplitRepo returns the owner and name parts of CatalogRepo.
func (c Config) SplitRepo() (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(c.CatalogRepo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repo must be in owner/repo format, got %q", c.CatalogRepo)
	}
	return owner, repo, nil
}

func (c Config) RepoNWO() string {
	owner, repo, err := c.SplitRepo()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/%s", owner, repo)
}

// Remote reports whether the catalog is fetched from GitHub.
func (c Config) Remote() bool {
	return c.CatalogFile == "" && c.CatalogRepo != ""
}

func (c Config) Validate() error {
	var errs []error
	if c.CatalogRepo != "" {
		if _, _, err := c.SplitRepo(); err != nil {
			errs = append(errs, err)
		}
		if c.CatalogPath == "" {
			errs = append(errs, errors.New("catalog path is required with a catalog repo"))
		}
	}
	if c.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %s", c.Debounce))
	}
	if c.Remote() {
		if c.CacheTTL <= 0 {
			errs = append(errs, fmt.Errorf("cache ttl must be positive, got %s", c.CacheTTL))
		}
		if c.CacheSizeMB <= 0 {
			errs = append(errs, fmt.Errorf("cache size must be positive, got %d", c.CacheSizeMB))
		}
		if c.CacheDir == "" {
			errs = append(errs, errors.New("cache dir is required for a remote catalog"))
		}
	}
	return errors.Join(errs...)
}
