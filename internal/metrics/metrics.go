package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tree metrics
var (
	TreeDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songdb_tree_directories",
			Help: "Number of directory nodes in the song tree, root excluded",
		},
	)

	TreeSongs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songdb_tree_songs",
			Help: "Number of songs in the song tree",
		},
	)

	TreePlaylists = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songdb_tree_playlists",
			Help: "Number of playlist entries in the song tree",
		},
	)

	LockWaitSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songdb_lock_wait_seconds",
			Help:    "Time spent waiting to acquire the tree lock",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"mode"}, // "exclusive", "shared"
	)
)

// Updater metrics
var (
	UpdateRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "songdb_update_runs_total",
			Help: "Total number of tree updates",
		},
	)

	UpdateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "songdb_update_duration_seconds",
			Help:    "Duration of tree updates in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	UpdateChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songdb_update_changes_total",
			Help: "Tree changes applied by the updater",
		},
		[]string{"kind"}, // "dir_created", "dir_deleted", "song_added", ...
	)
)

// Scanner metrics
var (
	ScanFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songdb_scan_files_total",
			Help: "Files processed by the scanner",
		},
		[]string{"result"}, // "added", "updated", "unchanged", "error"
	)

	ScanLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songdb_scan_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed scan",
		},
	)
)

// Query metrics
var (
	WalksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songdb_walks_total",
			Help: "Tree walks started by query commands",
		},
		[]string{"command", "status"},
	)

	ClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songdb_clients_connected",
			Help: "Number of clients in the registry",
		},
	)
)
