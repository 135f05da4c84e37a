package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, 0 if unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

func (u ProgressUpdate) String() string {
	if u.Total > 0 {
		return fmt.Sprintf("[%s %d/%d] %s", u.Phase, u.Step, u.Total, u.Message)
	}
	return fmt.Sprintf("[%s] %s", u.Phase, u.Message)
}

// Operation phase enumeration
type Phase int

const (
	ScanWalk Phase = iota
	ScanRead
	ScanPrune
	LoadCatalog
	ApplyDirectories
	ApplySongs
	ApplyPlaylists
	PruneTree
	SortTree
	Notify
)

func (p Phase) String() string {
	switch p {
	case ScanWalk:
		return "scan_walk"
	case ScanRead:
		return "scan_read"
	case ScanPrune:
		return "scan_prune"
	case LoadCatalog:
		return "load_catalog"
	case ApplyDirectories:
		return "apply_directories"
	case ApplySongs:
		return "apply_songs"
	case ApplyPlaylists:
		return "apply_playlists"
	case PruneTree:
		return "prune_tree"
	case SortTree:
		return "sort_tree"
	case Notify:
		return "notify"
	default:
		return ""
	}
}

// Send delivers update without blocking. A nil channel drops it.
func Send(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func ScanWalkUpdate(root string, found int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanWalk,
		Step:    found,
		Message: fmt.Sprintf("Found %d files below %s", found, root),
	}
}

func ScanReadUpdate(step, total int, uri string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanRead,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Reading tags of %s", uri),
		Data:    uri,
	}
}

func ScanPruneUpdate(removed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanPrune,
		Step:    removed,
		Message: fmt.Sprintf("Removed %d vanished files from the catalog", removed),
	}
}

func LoadCatalogUpdate(songs, playlists int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d songs and %d playlists from the catalog", songs, playlists),
	}
}

func ApplyUpdate(phase Phase, step, total int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: what,
	}
}

func NotifyUpdate(clients int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Notify,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Notified %d clients", clients),
	}
}
