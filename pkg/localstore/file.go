package localstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/xrsl/careerflow/pkg/utils"
)

// File stores one JSON document per key under a directory.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile returns a store rooted at dir. The directory is created on first write.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

var safeKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Path returns the file backing key. Keys that are not plain file names are
// hashed so they can never escape the directory.
func (f *File) Path(key string) string {
	name := key
	if !safeKey.MatchString(key) || key == "." || key == ".." {
		sum := sha256.Sum256([]byte(key))
		name = hex.EncodeToString(sum[:])
	}
	return filepath.Join(f.dir, name+".json")
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := utils.WriteFile(f.Path(key), value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
