package library

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/songdb/internal/models"
)

// UpsertResult reports what [SongRepository.Upsert] and [PlaylistRepository.Upsert] did.
type UpsertResult int

const (
	Unchanged UpsertResult = iota
	Inserted
	Updated
)

func (r UpsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// NextSequence atomically increments and returns the next sequence number for the given table.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequenceTable := table + "_sequence"

	_, err = tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable))
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// prefixClause restricts a query to URIs at or below dir.
func prefixClause(dir string) (string, []any) {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return "", nil
	}
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(dir)
	return ` AND (uri = ? OR uri LIKE ? ESCAPE '\')`, []any{dir, escaped + "/%"}
}

// tagNumber parses the leading number of values like "3" or "3/12".
func tagNumber(tag models.Tag, tt models.TagType) int {
	v := tag.Get(tt)
	if i := strings.IndexByte(v, '/'); i >= 0 {
		v = v[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
