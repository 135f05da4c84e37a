// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/songdb/internal/clients"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/shared"
)

// MockLoader is a test double for [playlist.SongLoader] backed by a map of URIs.
type MockLoader struct {
	Songs map[string]*models.DetachedSong
	Calls []string
}

func NewMockLoader(songs ...*models.DetachedSong) *MockLoader {
	m := &MockLoader{Songs: map[string]*models.DetachedSong{}}
	for _, s := range songs {
		m.Songs[s.URI] = s
	}
	return m
}

func (m *MockLoader) LoadSong(uri string) (*models.DetachedSong, error) {
	m.Calls = append(m.Calls, uri)
	s, ok := m.Songs[uri]
	if !ok {
		return nil, shared.ErrSongNotFound
	}
	copied := *s
	copied.Tag = s.Tag.Clone()
	return &copied, nil
}

// MockClient is a test double for [clients.Client] that records what it was sent.
type MockClient struct {
	mu     sync.Mutex
	Name   string
	idle   []clients.Idle
	closed bool
}

func NewMockClient(name string) *MockClient {
	return &MockClient{Name: name}
}

func (c *MockClient) IdleAdd(flags clients.Idle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idle = append(c.idle, flags)
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Idle returns every notification received so far.
func (c *MockClient) Idle() []clients.Idle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]clients.Idle(nil), c.idle...)
}

func (c *MockClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MustWriteFile writes content to root/rel, creating parent directories.
func MustWriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return path
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
