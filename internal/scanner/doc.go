// Package scanner fills the song catalog from the music directory.
//
// [Scanner.Scan] walks the directory, reads tags of audio files on a bounded
// worker pool and writes the results to the catalog in one goroutine. Files
// that vanished since the last scan are soft-deleted. [Scanner.Watch] reruns a
// callback after filesystem changes settle.
//
// The scanner never touches the song tree; the updater reconciles the tree
// with the catalog afterwards.
package scanner
