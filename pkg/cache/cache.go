// Package cache keeps AI rewrite results on disk so repeating a rewrite
// does not call the agent again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xrsl/careerflow/pkg/utils"
)

// Entry is one cached rewrite.
type Entry struct {
	Agent     string    `json:"agent"`
	Tone      string    `json:"tone"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"createdAt"`
}

// Key computes a deterministic SHA256 hash of the rewrite inputs.
// Fields are NUL separated so shifting text between them changes the key.
func Key(text, tone, agent string) string {
	h := sha256.New()
	for _, part := range []string{text, tone, agent} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type Cache struct {
	dir string
}

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Default returns the cache under the user cache directory, falling back to
// $HOME/.cache.
func Default() *Cache {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.ExpandEnv("$HOME"), ".cache")
	}
	return New(filepath.Join(base, "careerflow", "rewrites"))
}

// Path returns the path to the cache file for a given key
func (c *Cache) Path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Read returns the entry for key. A missing entry is reported as an
// os.ErrNotExist error.
func (c *Cache) Read(key string) (*Entry, error) {
	data, err := os.ReadFile(c.Path(key))
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to parse cache: %w", err)
	}
	return &e, nil
}

func (c *Cache) Write(key string, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	return utils.WriteFile(c.Path(key), string(data))
}

// Exists checks if cache exists for a key
func (c *Cache) Exists(key string) bool {
	_, err := os.Stat(c.Path(key))
	return err == nil
}
