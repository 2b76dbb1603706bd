// Package store is the relational backing for playlists, their entries, and
// the play queue: a thin wrapper over database/sql plus the query compiler
// that powers the GetPlaylistEntries family.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps a single-writer SQLite connection holding Playlists,
// PlaylistsEntries, and QueuedEntries.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the schema exists. path may be ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	// The event loop is the sole writer; a single connection avoids
	// SQLITE_BUSY churn from concurrent writers stepping on each other.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// PlaylistRow mirrors spec.md's Playlist row.
type PlaylistRow struct {
	ID            int64
	Title         string
	EntriesCount  int64
	DurationMs    int64
	SizeOfEntries int64
	CRC32         uint32
}

var playlistColumns = map[string]string{
	"id":             "id",
	"title":          "title",
	"duration":       "duration",
	"entries_count":  "entries_count",
	"size_of_entries": "size_of_entries",
	"crc32":          "crc32",
}

// DefaultPlaylistFields is used when GetPlaylists receives no fields arg.
var DefaultPlaylistFields = []string{"id", "title"}

// GetPlaylists returns rows for Playlists ordered by playlist_index,
// projecting only the requested fields. An unknown field name (one not in
// playlistColumns) is an error.
func (s *Store) GetPlaylists(ctx context.Context, fields []string) ([]map[string]any, error) {
	if len(fields) == 0 {
		fields = DefaultPlaylistFields
	}
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := playlistColumns[f]
		if !ok {
			return nil, fmt.Errorf("store: unknown playlist field %q", f)
		}
		cols = append(cols, col)
	}

	query := fmt.Sprintf("SELECT %s FROM Playlists ORDER BY playlist_index", joinCols(cols))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: GetPlaylists: %w", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		scanDest := make([]any, len(cols))
		scanVals := make([]any, len(cols))
		for i := range scanDest {
			scanDest[i] = &scanVals[i]
		}
		if err := rows.Scan(scanDest...); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		rec := make(map[string]any, len(fields))
		for i, f := range fields {
			rec[f] = scanVals[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CreatePlaylist inserts a new empty playlist at the end of the index
// order and returns its id.
func (s *Store) CreatePlaylist(ctx context.Context, title string) (int64, error) {
	var maxIdx sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(playlist_index) FROM Playlists").Scan(&maxIdx); err != nil {
		return 0, fmt.Errorf("store: CreatePlaylist: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO Playlists (playlist_index, title) VALUES (?, ?)",
		maxIdx.Int64+1, title)
	if err != nil {
		return 0, fmt.Errorf("store: CreatePlaylist: %w", err)
	}
	return res.LastInsertId()
}

// UpdatePlaylistStats recomputes entries_count/duration/size_of_entries/
// crc32 for a playlist from its current PlaylistsEntries rows.
func (s *Store) UpdatePlaylistStats(ctx context.Context, playlistID int64) error {
	entries, err := s.entriesForCRC(ctx, playlistID)
	if err != nil {
		return err
	}

	var count, duration, size int64
	for _, e := range entries {
		duration += e.Duration
		size += e.Filesize
	}
	count = int64(len(entries))

	var title string
	_ = s.db.QueryRowContext(ctx, "SELECT title FROM Playlists WHERE id = ?", playlistID).Scan(&title)

	propsCRC := PropertiesCRC32(title, count, duration, size)
	entriesCRC := EntriesCRC32(entries)
	crc := FoldCRC32(propsCRC, entriesCRC)

	_, err = s.db.ExecContext(ctx,
		"UPDATE Playlists SET entries_count=?, duration=?, size_of_entries=?, crc32=? WHERE id=?",
		count, duration, size, crc, playlistID)
	if err != nil {
		return fmt.Errorf("store: UpdatePlaylistStats: %w", err)
	}
	return nil
}

func (s *Store) entriesForCRC(ctx context.Context, playlistID int64) ([]EntryCRCFields, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT album, artist, date, filename, genre, title,
		bitrate, channels_count, duration, filesize, rating, samplerate
		FROM PlaylistsEntries WHERE playlist_id = ? ORDER BY entry_index ASC`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EntryCRCFields
	for rows.Next() {
		var e EntryCRCFields
		if err := rows.Scan(&e.Album, &e.Artist, &e.Date, &e.Filename, &e.Genre, &e.Title,
			&e.Bitrate, &e.ChannelsCount, &e.Duration, &e.Filesize, &e.Rating, &e.Samplerate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func joinCols(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}
