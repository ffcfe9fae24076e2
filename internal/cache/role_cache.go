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

// RoleCache stores derived role credentials under ~/.aws/cli/cache. Its key
// namespace is independent from the token cache: same hash, different
// directory and key material.
type RoleCache struct {
	fs  afero.Fs
	dir string
}

// NewRoleCache creates the cache rooted at dir, creating it if needed.
func NewRoleCache(fs afero.Fs, dir string) (*RoleCache, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create role cache directory %s: %w", dir, err)
	}
	return &RoleCache{fs: fs, dir: dir}, nil
}

// RoleKey derives the cache filename stem for one (identity, account, role)
// tuple.
func RoleKey(startURL, accountID, roleName string) string {
	sum := sha1.Sum([]byte(startURL + ":" + accountID + ":" + roleName))
	return hex.EncodeToString(sum[:])
}

func (c *RoleCache) path(startURL, accountID, roleName string) string {
	return filepath.Join(c.dir, RoleKey(startURL, accountID, roleName)+".json")
}

// Get returns cached credentials, or nil on a miss. A role credential has its
// own lifecycle: it may outlive or expire before the token that produced it.
func (c *RoleCache) Get(startURL, accountID, roleName string, now time.Time) (*models.RoleCredentials, error) {
	path := c.path(startURL, accountID, roleName)
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if ok, _ := afero.Exists(c.fs, path); !ok {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read role cache file %s: %w", path, err)
	}

	var creds models.RoleCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		log.Warn("ignoring corrupt role cache entry", "path", path, "err", err)
		return nil, nil
	}
	if !creds.IsValid(now) {
		return nil, nil
	}
	return &creds, nil
}

// Put persists credentials immediately after a successful provider response.
func (c *RoleCache) Put(startURL, accountID, roleName string, creds *models.RoleCredentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	path := c.path(startURL, accountID, roleName)
	if err := afero.WriteFile(c.fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write role cache file %s: %w", path, err)
	}
	return nil
}

// Remove deletes one cached credential set; missing entries are fine.
func (c *RoleCache) Remove(startURL, accountID, roleName string) error {
	path := c.path(startURL, accountID, roleName)
	if ok, _ := afero.Exists(c.fs, path); !ok {
		return nil
	}
	if err := c.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove role cache file %s: %w", path, err)
	}
	return nil
}

// Clear removes every cached credential file, used by logout.
func (c *RoleCache) Clear() error {
	infos, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return fmt.Errorf("failed to read role cache directory %s: %w", c.dir, err)
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
