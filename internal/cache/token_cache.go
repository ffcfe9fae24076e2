// Package cache persists provider tokens and derived role credentials as one
// small JSON file per key, bit-compatible with the AWS CLI v2 cache layout so
// independently produced caches interoperate.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/cloudlane/ssoctl/models"
)

// TokenCache stores SSO access tokens under ~/.aws/sso/cache.
type TokenCache struct {
	fs  afero.Fs
	dir string
}

// NewTokenCache creates the cache rooted at dir, creating it if needed.
func NewTokenCache(fs afero.Fs, dir string) (*TokenCache, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token cache directory %s: %w", dir, err)
	}
	return &TokenCache{fs: fs, dir: dir}, nil
}

// TokenKey derives the cache filename stem for a start URL. The digest is
// SHA1 hex of the exact string, no normalization of any kind: trimming or
// case-folding here would silently diverge from caches the AWS CLI writes.
func TokenKey(startURL string) string {
	sum := sha1.Sum([]byte(startURL))
	return hex.EncodeToString(sum[:])
}

func (c *TokenCache) path(startURL string) string {
	return filepath.Join(c.dir, TokenKey(startURL)+".json")
}

// Get returns the cached token for a start URL, or nil on a miss. Absent,
// malformed, and expired entries are all misses; corruption is logged and
// never fatal.
func (c *TokenCache) Get(startURL string, now time.Time) (*models.CachedToken, error) {
	path := c.path(startURL)
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if ok, _ := afero.Exists(c.fs, path); !ok {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token cache file %s: %w", path, err)
	}

	var token models.CachedToken
	if err := json.Unmarshal(data, &token); err != nil {
		log.Warn("ignoring corrupt token cache entry", "path", path, "err", err)
		return nil, nil
	}
	if !token.IsValid(now) {
		return nil, nil
	}
	return &token, nil
}

// Put persists a token immediately. A crash before Put means re-fetching,
// never loss of an already persisted fact.
func (c *TokenCache) Put(startURL string, token *models.CachedToken) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	path := c.path(startURL)
	if err := afero.WriteFile(c.fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache file %s: %w", path, err)
	}
	return nil
}

// Remove deletes the cached token for a start URL; missing entries are fine.
func (c *TokenCache) Remove(startURL string) error {
	path := c.path(startURL)
	if ok, _ := afero.Exists(c.fs, path); !ok {
		return nil
	}
	if err := c.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove token cache file %s: %w", path, err)
	}
	return nil
}

// Clear removes every cached token file, used by logout --all.
func (c *TokenCache) Clear() error {
	infos, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return fmt.Errorf("failed to read token cache directory %s: %w", c.dir, err)
	}
	for _, info := range infos {
		if info.IsDir() || filepath.Ext(info.Name()) != ".json" {
			continue
		}
		if err := c.fs.Remove(filepath.Join(c.dir, info.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", info.Name(), err)
		}
	}
	return nil
}

// List returns every readable cached token keyed by filename stem.
// Unreadable or malformed entries are skipped.
func (c *TokenCache) List() (map[string]*models.CachedToken, error) {
	infos, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache directory %s: %w", c.dir, err)
	}

	tokens := make(map[string]*models.CachedToken)
	for _, info := range infos {
		if info.IsDir() || filepath.Ext(info.Name()) != ".json" {
			continue
		}
		data, err := afero.ReadFile(c.fs, filepath.Join(c.dir, info.Name()))
		if err != nil {
			continue
		}
		var token models.CachedToken
		if err := json.Unmarshal(data, &token); err != nil {
			log.Warn("skipping corrupt token cache entry", "file", info.Name(), "err", err)
			continue
		}
		key := info.Name()[:len(info.Name())-len(".json")]
		tokens[key] = &token
	}
	return tokens, nil
}
