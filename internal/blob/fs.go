package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FSStore implements Store on the local filesystem. A metadata sidecar
// (filename + ".meta") records content type and user metadata. Intended for
// development and single-writer deployments.
type FSStore struct {
	root string
}

// NewFSStore returns a filesystem store rooted at path, creating it when
// needed.
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		root = "./archive-files"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{root: root}, nil
}

// Driver implements Store.
func (s *FSStore) Driver() Driver { return DriverFilesystem }

// sanitizeKey forbids path traversal and absolute keys.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid key traversal")
	}
	return clean, nil
}

type fsMeta struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Put stores a new object. Existing keys are overwritten: re-imports of an
// archive file replace the prior version.
func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return Info{}, err
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Info{}, err
	}
	f, err := os.Create(full)
	if err != nil {
		return Info{}, err
	}
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, hasher), r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return Info{}, err
	}
	meta := fsMeta{ContentType: opts.ContentType, Metadata: opts.Metadata}
	raw, err := json.Marshal(meta)
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(full+".meta", raw, 0o644); err != nil {
		return Info{}, err
	}
	return Info{
		Key:          clean,
		Size:         size,
		ContentType:  opts.ContentType,
		ETag:         hex.EncodeToString(hasher.Sum(nil)),
		Metadata:     opts.Metadata,
		LastModified: statMTime(full),
	}, nil
}

// Get opens the object for reading.
func (s *FSStore) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return Info{}, nil, err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(info.Key)))
	if err != nil {
		return Info{}, nil, err
	}
	return info, f, nil
}

// Head returns object metadata without opening the payload.
func (s *FSStore) Head(ctx context.Context, key string) (Info, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return Info{}, err
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	st, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Info{}, ErrNotExist
		}
		return Info{}, err
	}
	info := Info{Key: clean, Size: st.Size(), LastModified: st.ModTime().UTC()}
	if raw, err := os.ReadFile(full + ".meta"); err == nil {
		var meta fsMeta
		if err := json.Unmarshal(raw, &meta); err == nil {
			info.ContentType = meta.ContentType
			info.Metadata = meta.Metadata
		}
	}
	return info, nil
}

// Delete removes the object and its sidecar; reports whether it existed.
func (s *FSStore) Delete(ctx context.Context, key string) (bool, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return false, err
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	_ = os.Remove(full + ".meta")
	return true, nil
}

// List returns objects whose keys begin with prefix, sorted by key.
func (s *FSStore) List(ctx context.Context, prefix string) ([]Info, error) {
	var infos []Info
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.HasSuffix(path, ".meta") {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := s.Head(ctx, key)
		if err != nil {
			return err
		}
		infos = append(infos, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func statMTime(path string) time.Time {
	if st, err := os.Stat(path); err == nil {
		return st.ModTime().UTC()
	}
	return time.Now().UTC()
}
