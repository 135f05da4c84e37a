// Package clients keeps the bounded registry of connected clients and fans out
// idle notifications when the song database changes.
package clients

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdb/internal/metrics"
	"github.com/desertthunder/songdb/internal/shared"
)

// Idle is a bit set of subsystems that changed.
type Idle uint

const (
	IdleDatabase Idle = 1 << iota
	IdleStoredPlaylist
	IdleUpdate
)

var idleNames = []string{"database", "stored_playlist", "update"}

func (i Idle) String() string {
	var names []string
	for bit, name := range idleNames {
		if i&(1<<bit) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

// Client is one registered connection.
type Client interface {
	Close()
	IdleAdd(flags Idle)
}

// List is the registry. It has its own mutex and never touches the tree lock.
type List struct {
	mu      sync.Mutex
	maxSize int
	clients []Client
}

// NewList creates a registry that accepts at most maxSize clients.
func NewList(maxSize int) *List {
	return &List{maxSize: maxSize}
}

// IsFull reports whether Add would be rejected.
func (l *List) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients) >= l.maxSize
}

// Add registers c at the front of the list.
func (l *List) Add(c Client) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.clients) >= l.maxSize {
		return fmt.Errorf("%w: %d clients connected", shared.ErrRegistryFull, len(l.clients))
	}

	l.clients = slices.Insert(l.clients, 0, c)
	metrics.ClientsConnected.Set(float64(len(l.clients)))
	return nil
}

// Remove unregisters c and reports whether it was present.
func (l *List) Remove(c Client) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.Index(l.clients, c)
	if i < 0 {
		return false
	}

	l.clients = slices.Delete(l.clients, i, i+1)
	metrics.ClientsConnected.Set(float64(len(l.clients)))
	return true
}

// Len returns the number of registered clients.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// CloseAll empties the registry, then closes every client outside the mutex
// so a client may call Remove from its Close.
func (l *List) CloseAll() {
	l.mu.Lock()
	closing := l.clients
	l.clients = nil
	metrics.ClientsConnected.Set(0)
	l.mu.Unlock()

	for _, c := range closing {
		c.Close()
	}
}

// IdleAdd notifies every registered client.
func (l *List) IdleAdd(flags Idle) {
	l.mu.Lock()
	snapshot := slices.Clone(l.clients)
	l.mu.Unlock()

	for _, c := range snapshot {
		c.IdleAdd(flags)
	}
}

// LogClient is a client that writes its notifications to a logger.
type LogClient struct {
	logger *log.Logger
}

func NewLogClient(logger *log.Logger) *LogClient {
	return &LogClient{logger: logger}
}

func (c *LogClient) IdleAdd(flags Idle) {
	c.logger.Info("database changed", "idle", flags.String())
}

func (c *LogClient) Close() {
	c.logger.Debug("client closed")
}
