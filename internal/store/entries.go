package store

import (
	"context"
	"fmt"
)

// EntryPage is the GetPlaylistEntries/GetQueuedEntries result shape.
type EntryPage struct {
	TotalEntriesCount  int64
	CountOfFoundEntries int64
	Rows               []map[string]any
	Fields             []string
	FormatMode         bool
}

// RunQuery executes a compiled query and assembles the page result,
// computing total_entries_count and count_of_found_entries per §4.5/§8.3.
func (s *Store) RunQuery(ctx context.Context, q CompiledQuery) (EntryPage, error) {
	var page EntryPage
	page.Fields = q.Fields
	page.FormatMode = q.FormatMode

	if err := s.db.QueryRowContext(ctx, q.TotalCountSQL, q.TotalCountArgs...).Scan(&page.TotalEntriesCount); err != nil {
		return EntryPage{}, fmt.Errorf("store: total count: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, q.FilteredCountSQL, q.FilteredCountArgs...).Scan(&page.CountOfFoundEntries); err != nil {
		return EntryPage{}, fmt.Errorf("store: filtered count: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, q.PageSQL, q.PageArgs...)
	if err != nil {
		return EntryPage{}, fmt.Errorf("store: page query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return EntryPage{}, err
	}

	for rows.Next() {
		dest := make([]any, len(cols))
		vals := make([]any, len(cols))
		for i := range dest {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return EntryPage{}, fmt.Errorf("store: scan: %w", err)
		}
		rec := make(map[string]any, len(vals))
		if q.FormatMode {
			rec["playlist_id"] = vals[0]
			rec["entry_id"] = vals[1]
		} else {
			for i, f := range q.Fields {
				if f == "foldername" {
					rec[f] = FoldernameOf(fmt.Sprint(vals[i]))
				} else {
					rec[f] = vals[i]
				}
			}
		}
		page.Rows = append(page.Rows, rec)
	}
	return page, rows.Err()
}

// FindEntryPosition implements GetEntryPositionInDataTable: runs the same
// compiled query without LIMIT (the id field is forced into the
// projection by the caller) and returns (page_number, track_index_on_page)
// for the first row whose entry_id == trackID, or (-1, -1) if absent.
func FindEntryPosition(rows []map[string]any, trackID int64, entriesPerPage int) (pageNumber, indexOnPage int) {
	for i, r := range rows {
		id, ok := r["id"]
		if !ok {
			continue
		}
		if toInt64(id) == trackID {
			if entriesPerPage <= 0 {
				return 0, i
			}
			return i / entriesPerPage, i % entriesPerPage
		}
	}
	return -1, -1
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	default:
		return -1
	}
}

// GetPlaylistEntryInfo reads a single entry by (playlistID, entryID) and
// returns the full field set as a map.
func (s *Store) GetPlaylistEntryInfo(ctx context.Context, playlistID, entryID int64) (map[string]any, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT entry_id, title, artist, album, date, genre,
		bitrate, duration, filesize, rating, filename
		FROM PlaylistsEntries WHERE playlist_id = ? AND entry_id = ?`, playlistID, entryID)

	var id, bitrate, duration, filesize, rating int64
	var title, artist, album, date, genre, filename string
	err := row.Scan(&id, &title, &artist, &album, &date, &genre, &bitrate, &duration, &filesize, &rating, &filename)
	if err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: GetPlaylistEntryInfo: %w", err)
	}

	return map[string]any{
		"id": id, "title": title, "artist": artist, "album": album, "date": date,
		"genre": genre, "bitrate": bitrate, "duration": duration, "filesize": filesize,
		"rating": rating, "filename": filename, "foldername": FoldernameOf(filename),
	}, true, nil
}

// GetPlaylistEntriesCount returns COUNT(*) over a playlist's entries.
func (s *Store) GetPlaylistEntriesCount(ctx context.Context, playlistID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM PlaylistsEntries WHERE playlist_id = ?", playlistID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: GetPlaylistEntriesCount: %w", err)
	}
	return count, nil
}
