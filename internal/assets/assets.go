// Package assets fetches scene files from disk or HTTP and turns model
// files into mesh data.
package assets

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
)

// ErrNotFound is returned when an asset does not exist at its source.
var ErrNotFound = errors.New("asset not found")

// Manager resolves asset paths against a root directory or base URL and
// caches the raw bytes it reads.
type Manager struct {
	root   string
	client *http.Client
	cache  *Cache
}

// NewManager creates a manager rooted at root, which is a directory or an
// http(s) base URL.
func NewManager(root string) *Manager {
	return &Manager{
		root:   root,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  NewCache(),
	}
}

// Root returns the asset root.
func (m *Manager) Root() string {
	return m.root
}

// Cache returns the byte cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Resolve returns the file path or URL path refers to. URLs and absolute
// file paths under a directory root are returned unchanged.
func (m *Manager) Resolve(path string) string {
	switch {
	case isURL(path), m.root == "":
		return path
	case isURL(m.root):
		return strings.TrimSuffix(m.root, "/") + "/" + strings.TrimPrefix(filepath.ToSlash(path), "/")
	case filepath.IsAbs(path):
		return path
	default:
		return filepath.Join(m.root, filepath.FromSlash(path))
	}
}

// Fetch returns the bytes of path, reading through the cache.
// It is safe for concurrent use and satisfies texture.Fetcher.
func (m *Manager) Fetch(ctx context.Context, path string) ([]byte, error) {
	src := m.Resolve(path)
	if data, ok := m.cache.Get(src); ok {
		return data, nil
	}

	var (
		data []byte
		err  error
	)
	if isURL(src) {
		data, err = m.fetchHTTP(ctx, src)
	} else {
		data, err = readFile(ctx, src)
	}
	if err != nil {
		return nil, err
	}

	m.cache.Set(src, data)
	logger.Debug("asset loaded", zap.String("path", src), zap.Int("bytes", len(data)))
	return data, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

func (m *Manager) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", url)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", url)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrapf(ErrNotFound, "%s", url)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Errorf("get %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read body %s", url)
	}
	return data, nil
}

// Close drops all cached bytes.
func (m *Manager) Close() {
	m.cache.Clear()
}
