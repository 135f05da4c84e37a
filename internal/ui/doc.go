// Package ui renders the song tree in the terminal.
//
// [RenderTree] draws a static tree with lipgloss for the `tree` command. [Model]
// is a bubbletea browser for the `browse` command:
//  1. The list shows one directory level: songs, playlists, then subdirectories
//  2. enter descends into a directory or shows the tags of a song
//  3. esc/backspace goes back up, r reloads the current directory, q quits
//
// Every listing is read through [formatter.Collect] under the shared tree lock, so
// the browser never holds the lock while it waits for input.
package ui
