package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/songdb/internal/dblock"
	"github.com/desertthunder/songdb/internal/directory"
	"github.com/desertthunder/songdb/internal/formatter"
	"github.com/desertthunder/songdb/internal/metrics"
	"github.com/desertthunder/songdb/internal/models"
	"github.com/desertthunder/songdb/internal/updater"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TreeHandler serves read-only JSON views of the tree.
type TreeHandler struct {
	lock *dblock.Lock
	root *directory.Directory
}

func NewTreeHandler(lock *dblock.Lock, root *directory.Directory) *TreeHandler {
	return &TreeHandler{lock: lock, root: root}
}

// Routes returns the HTTP routes this handler serves.
func (h *TreeHandler) Routes() []string {
	return []string{"/api/ls", "/api/lookup", "/api/stats"}
}

// LookupResponse is the body of /api/lookup.
type LookupResponse struct {
	Kind  formatter.Kind       `json:"type"`
	Song  *models.DetachedSong `json:"song,omitempty"`
	Stats *updater.Stats       `json:"stats,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *TreeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch r.URL.Path {
	case "/api/ls":
		h.ls(w, r)
	case "/api/lookup":
		h.lookup(w, r)
	case "/api/stats":
		h.stats(w)
	default:
		writeError(w, http.StatusNotFound, "no such endpoint")
	}
}

func (h *TreeHandler) ls(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Query().Get("path"), "/")
	recursive, _ := strconv.ParseBool(r.URL.Query().Get("recursive"))

	var entries []formatter.Entry
	found := false
	err := h.walk("http_ls", func(g *dblock.ReadGuard) error {
		d := h.root.LookupDirectory(g, path)
		if d == nil {
			return nil
		}
		found = true

		var err error
		entries, err = formatter.Collect(g, d, formatter.Options{Recursive: recursive})
		return err
	})

	switch {
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case !found:
		writeError(w, http.StatusNotFound, fmt.Sprintf("directory %q not found", path))
	default:
		if entries == nil {
			entries = []formatter.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func (h *TreeHandler) lookup(w http.ResponseWriter, r *http.Request) {
	uri := strings.Trim(r.URL.Query().Get("uri"), "/")

	var resp *LookupResponse
	err := h.walk("http_lookup", func(g *dblock.ReadGuard) error {
		if s := h.root.LookupSong(g, uri); s != nil {
			resp = &LookupResponse{Kind: formatter.KindSong, Song: updater.Detach(s)}
			return nil
		}
		if d := h.root.LookupDirectory(g, uri); d != nil {
			stats, err := updater.Count(g, d)
			if err != nil {
				return err
			}
			resp = &LookupResponse{Kind: formatter.KindDirectory, Stats: &stats}
		}
		return nil
	})

	switch {
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case resp == nil:
		writeError(w, http.StatusNotFound, fmt.Sprintf("%q not found", uri))
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *TreeHandler) stats(w http.ResponseWriter) {
	var stats updater.Stats
	err := h.walk("http_stats", func(g *dblock.ReadGuard) error {
		var err error
		stats, err = updater.Count(g, h.root)
		return err
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stats.Publish()
	writeJSON(w, http.StatusOK, stats)
}

func (h *TreeHandler) walk(command string, fn func(*dblock.ReadGuard) error) error {
	err := h.lock.WithRead(fn)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.WalksTotal.WithLabelValues(command, status).Inc()
	return err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// NewMux wires the tree API, /metrics and /healthz into a [BasicRouter] with
// the given middleware.
func NewMux(tree *TreeHandler, middleware ...Middleware) *BasicRouter {
	r := NewBasicRouter()
	r.Use(middleware...)
	r.Handler(tree)
	r.Handle(http.MethodGet, "/metrics", promhttp.Handler())
	r.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	return r
}
