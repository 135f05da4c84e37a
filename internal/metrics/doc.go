// Package metrics defines the Prometheus collectors used across songdb.
//
// Collectors are registered with the default registry through promauto, so any
// package can record values without wiring a registry through constructors.
// [Snapshot] gathers the current values for display by the CLI.
//
// Metric families:
//   - Tree: directory, song and playlist gauges plus lock wait times
//   - Updater: run count, duration and per-kind change counters
//   - Scanner: per-result file counters and last run timestamp
//   - Query: walk counters and client registry size
package metrics
