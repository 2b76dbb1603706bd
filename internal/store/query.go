package store

import (
	"fmt"
	"path"
	"strings"
)

// QueryMode selects the entry source table for the compiled query.
type QueryMode int

const (
	ModeEntries QueryMode = iota
	ModeQueue
)

// OrderField is one GetPlaylistEntries order_fields element.
type OrderField struct {
	Field string
	Dir   string // "asc" or "desc"
}

// QueryOptions is the full GetPlaylistEntries/GetQueuedEntries argument set.
type QueryOptions struct {
	Mode         QueryMode
	PlaylistID   int64 // ignored in ModeQueue
	Fields       []string
	FormatString string // non-empty => format mode, bypasses Fields
	StartIndex   int
	EntriesCount int // -1 means "all"
	OrderFields  []OrderField
	SearchString string
}

// DefaultEntryFields is used when neither fields nor format_string is given.
var DefaultEntryFields = []string{"id", "title"}

// entryColumns translates an RPC field name to its SQL column expression.
// "foldername" is derived from filename, not a stored column. "id" and
// "playlist_id" are handled separately by resolveColumn since they are
// ambiguous once ModeQueue joins QueuedEntries to PlaylistsEntries.
var entryColumns = map[string]string{
	"title":    "title",
	"artist":   "artist",
	"album":    "album",
	"date":     "date",
	"genre":    "genre",
	"bitrate":  "bitrate",
	"duration": "duration",
	"filesize": "filesize",
	"rating":   "rating",
	"filename": "filename",
}

// searchableFields is the fixed set search_string filters across.
var searchableFields = []string{"title", "artist", "album", "date", "genre"}

// ValidOrderField reports whether order_fields may reference field;
// buildOrder silently drops fields for which it returns false.
func ValidOrderField(field string) bool {
	if field == "foldername" || field == "queue_index" || field == "playlist_id" || field == "id" {
		return true
	}
	_, ok := entryColumns[field]
	return ok
}

// CompiledQuery is a builder result: (sql_text, []binder) pairs for the
// page query plus the two count queries GetPlaylistEntries needs.
type CompiledQuery struct {
	Fields           []string // resolved projection; in format mode the placeholder {id} (the SQL selects playlist_id, entry_id)
	FormatMode       bool
	PageSQL          string
	PageArgs         []any
	TotalCountSQL    string
	TotalCountArgs   []any
	FilteredCountSQL string
	FilteredCountArgs []any
}

// Compile builds the SQL for a GetPlaylistEntries/GetQueuedEntries/
// GetEntryPositionInDataTable invocation. noLimit suppresses the
// start_index/entries_count LIMIT clause (used by
// GetEntryPositionInDataTable, which must scan the whole filtered set).
func Compile(opts QueryOptions, noLimit bool) (CompiledQuery, error) {
	table := "PlaylistsEntries"
	if opts.Mode == ModeQueue {
		// QueuedEntries only carries the ordering, not track metadata; join
		// back to PlaylistsEntries for title/artist/album/etc projections.
		table = "QueuedEntries JOIN PlaylistsEntries " +
			"ON QueuedEntries.playlist_id = PlaylistsEntries.playlist_id " +
			"AND QueuedEntries.entry_id = PlaylistsEntries.entry_id"
	}

	fields := opts.Fields
	formatMode := opts.FormatString != ""
	if formatMode {
		fields = []string{"id"} // placeholder; real projection is playlist_id, entry_id
	} else if len(fields) == 0 {
		fields = DefaultEntryFields
	}

	var cols []string
	if formatMode {
		if opts.Mode == ModeQueue {
			cols = []string{"QueuedEntries.playlist_id", "QueuedEntries.entry_id"}
		} else {
			cols = []string{"playlist_id", "entry_id"}
		}
	} else {
		for _, f := range fields {
			col, ok := resolveColumn(f, opts.Mode)
			if !ok {
				return CompiledQuery{}, fmt.Errorf("store: unknown entry field %q", f)
			}
			cols = append(cols, col)
		}
	}

	whereClause, whereArgs := buildWhere(opts)
	orderClause := buildOrder(opts.OrderFields, opts.Mode)

	limitClause := ""
	limitArgs := []any(nil)
	if !noLimit && opts.EntriesCount >= 0 {
		limitClause = " LIMIT ? OFFSET ?"
		limitArgs = []any{opts.EntriesCount, opts.StartIndex}
	}

	pageSQL := fmt.Sprintf("SELECT %s FROM %s%s%s%s",
		strings.Join(cols, ", "), table, whereClause, orderClause, limitClause)
	pageArgs := append(append([]any{}, whereArgs...), limitArgs...)

	unfilteredWhere, unfilteredArgs := buildWhereNoSearch(opts)
	totalSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, unfilteredWhere)

	filteredSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, whereClause)

	return CompiledQuery{
		Fields:            fields,
		FormatMode:        formatMode,
		PageSQL:           pageSQL,
		PageArgs:          pageArgs,
		TotalCountSQL:     totalSQL,
		TotalCountArgs:    unfilteredArgs,
		FilteredCountSQL:  filteredSQL,
		FilteredCountArgs: whereArgs,
	}, nil
}

func resolveColumn(field string, mode QueryMode) (string, bool) {
	switch field {
	case "foldername":
		return "filename", true // caller extracts dirname after scan
	case "playlist_id":
		if mode == ModeQueue {
			return "QueuedEntries.playlist_id", true
		}
		return "playlist_id", true
	case "id":
		if mode == ModeQueue {
			return "PlaylistsEntries.entry_id", true
		}
		return "entry_id", true
	case "queue_index":
		if mode == ModeQueue {
			return "queue_index", true
		}
		return "", false
	}
	col, ok := entryColumns[field]
	return col, ok
}

// FoldernameOf extracts the parent directory of a filename, the projection
// rule for the derived "foldername" field.
func FoldernameOf(filename string) string {
	dir := path.Dir(filepath(filename))
	if dir == "." {
		return ""
	}
	return dir
}

// filepath normalises backslash-separated paths (as PlaylistsEntries.filename
// may carry from ingestion) to forward slashes before path.Dir.
func filepath(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

func buildWhere(opts QueryOptions) (string, []any) {
	var conds []string
	var args []any

	if opts.Mode == ModeEntries {
		conds = append(conds, "playlist_id = ?")
		args = append(args, opts.PlaylistID)
	}

	if s := strings.TrimSpace(opts.SearchString); s != "" {
		like := "%" + s + "%"
		var ors []string
		for _, f := range searchableFields {
			col := entryColumns[f]
			ors = append(ors, fmt.Sprintf("%s LIKE ?", col))
			args = append(args, like)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildWhereNoSearch builds the WHERE clause used for total_entries_count:
// the playlist filter only, without the search_string predicate.
func buildWhereNoSearch(opts QueryOptions) (string, []any) {
	if opts.Mode != ModeEntries {
		return "", nil
	}
	return " WHERE playlist_id = ?", []any{opts.PlaylistID}
}

// buildOrder renders order_fields in the given order, silently dropping
// unknown fields, and always appends the canonical tiebreaker for mode (the
// whole ordering when the field list is empty, a stability guarantee for
// ties when it is not) — entry_index for ModeEntries, queue_index for
// ModeQueue. queue_index is also accepted as an order field in ModeQueue.
func buildOrder(fields []OrderField, mode QueryMode) string {
	var parts []string
	for _, f := range fields {
		if !ValidOrderField(f.Field) {
			continue
		}
		dir := "ASC"
		if strings.EqualFold(f.Dir, "desc") {
			dir = "DESC"
		}
		col, ok := resolveColumn(f.Field, mode)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", col, dir))
	}
	tiebreaker := "entry_index"
	if mode == ModeQueue {
		tiebreaker = "queue_index"
	}
	parts = append(parts, tiebreaker+" ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}
