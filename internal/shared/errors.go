package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog and tree errors
	ErrNotFound         = fmt.Errorf("not found")
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrDirNotFound      = fmt.Errorf("directory not found")
	ErrInvalidURI       = fmt.Errorf("invalid URI")

	// Scanner errors
	ErrMusicDirMissing = fmt.Errorf("music directory not configured")
	ErrUnsupportedFile = fmt.Errorf("unsupported file type")

	// Tree errors
	ErrTreeBusy = fmt.Errorf("tree is locked")

	// Client registry errors
	ErrRegistryFull = fmt.Errorf("client registry full")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
