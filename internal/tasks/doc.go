// Package tasks carries progress reporting shared by the long-running operations.
//
// # Progress Reporting
//
// The scanner and the updater report through a send-only channel of
// [ProgressUpdate]. [Send] uses select with default so a slow or absent
// reader never stalls a scan or holds the tree lock longer than needed.
//
// Each update names its [Phase] and a step counter within that phase.
// A nil channel disables reporting.
package tasks
