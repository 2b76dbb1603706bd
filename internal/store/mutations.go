package store

import (
	"context"
	"database/sql"
	"fmt"
)

// NewEntry is the set of fields needed to insert a PlaylistsEntries row.
type NewEntry struct {
	Album         string
	Artist        string
	Date          string
	Filename      string
	Genre         string
	Title         string
	Bitrate       int64
	ChannelsCount int64
	Duration      int64
	Filesize      int64
	Rating        int64
	Samplerate    int64
}

// AddEntryToPlaylist appends a new entry at the end of playlistID's
// intrinsic order and returns its newly allocated entry_id.
func (s *Store) AddEntryToPlaylist(ctx context.Context, playlistID int64, e NewEntry) (int64, error) {
	var maxIdx, maxID sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(entry_index), MAX(entry_id) FROM PlaylistsEntries WHERE playlist_id = ?",
		playlistID).Scan(&maxIdx, &maxID)
	if err != nil {
		return 0, fmt.Errorf("store: AddEntryToPlaylist: %w", err)
	}
	entryID := maxID.Int64 + 1
	entryIndex := maxIdx.Int64 + 1

	_, err = s.db.ExecContext(ctx, `INSERT INTO PlaylistsEntries
		(playlist_id, entry_id, entry_index, album, artist, date, filename, genre, title,
		 bitrate, channels_count, duration, filesize, rating, samplerate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		playlistID, entryID, entryIndex, e.Album, e.Artist, e.Date, e.Filename, e.Genre, e.Title,
		e.Bitrate, e.ChannelsCount, e.Duration, e.Filesize, e.Rating, e.Samplerate)
	if err != nil {
		return 0, fmt.Errorf("store: AddEntryToPlaylist: %w", err)
	}
	if err := s.UpdatePlaylistStats(ctx, playlistID); err != nil {
		return 0, err
	}
	return entryID, nil
}

// RemoveEntryFromPlaylist deletes a single (playlist_id, entry_id) row and
// refreshes the playlist's stats.
func (s *Store) RemoveEntryFromPlaylist(ctx context.Context, playlistID, entryID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM PlaylistsEntries WHERE playlist_id = ? AND entry_id = ?", playlistID, entryID)
	if err != nil {
		return fmt.Errorf("store: RemoveEntryFromPlaylist: %w", err)
	}
	return s.UpdatePlaylistStats(ctx, playlistID)
}

// SetEntryRating updates the rating column for one entry, clamped by the
// caller to [0,5].
func (s *Store) SetEntryRating(ctx context.Context, playlistID, entryID, rating int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE PlaylistsEntries SET rating = ? WHERE playlist_id = ? AND entry_id = ?",
		rating, playlistID, entryID)
	if err != nil {
		return fmt.Errorf("store: SetEntryRating: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("store: SetEntryRating: no such entry (%d, %d)", playlistID, entryID)
	}
	return nil
}

// EnqueueEntry inserts (playlistID, entryID) into QueuedEntries either at
// the front (insertAtBeginning) or the back of the queue.
func (s *Store) EnqueueEntry(ctx context.Context, playlistID, entryID int64, insertAtBeginning bool) error {
	if insertAtBeginning {
		if _, err := s.db.ExecContext(ctx, "UPDATE QueuedEntries SET queue_index = queue_index + 1"); err != nil {
			return fmt.Errorf("store: EnqueueEntry: %w", err)
		}
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO QueuedEntries (playlist_id, entry_id, queue_index) VALUES (?, ?, 0)",
			playlistID, entryID)
		if err != nil {
			return fmt.Errorf("store: EnqueueEntry: %w", err)
		}
		return nil
	}

	var maxIdx sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(queue_index) FROM QueuedEntries").Scan(&maxIdx); err != nil {
		return fmt.Errorf("store: EnqueueEntry: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO QueuedEntries (playlist_id, entry_id, queue_index) VALUES (?, ?, ?)",
		playlistID, entryID, maxIdx.Int64+1)
	if err != nil {
		return fmt.Errorf("store: EnqueueEntry: %w", err)
	}
	return nil
}

// RemoveFromQueue deletes one (playlist_id, entry_id) row from
// QueuedEntries.
func (s *Store) RemoveFromQueue(ctx context.Context, playlistID, entryID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM QueuedEntries WHERE playlist_id = ? AND entry_id = ?", playlistID, entryID)
	if err != nil {
		return fmt.Errorf("store: RemoveFromQueue: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("store: RemoveFromQueue: no such queued entry (%d, %d)", playlistID, entryID)
	}
	return nil
}

// MoveInQueue relocates the row at oldIndex to newIndex, shifting the
// intervening rows by one.
func (s *Store) MoveInQueue(ctx context.Context, oldIndex, newIndex int64) error {
	if oldIndex == newIndex {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: MoveInQueue: %w", err)
	}
	defer tx.Rollback()

	// Park the moving row at -1 so the shift below leaves it alone.
	if _, err := tx.ExecContext(ctx, "UPDATE QueuedEntries SET queue_index = -1 WHERE queue_index = ?", oldIndex); err != nil {
		return fmt.Errorf("store: MoveInQueue: %w", err)
	}
	if oldIndex < newIndex {
		_, err = tx.ExecContext(ctx,
			"UPDATE QueuedEntries SET queue_index = queue_index - 1 WHERE queue_index > ? AND queue_index <= ?",
			oldIndex, newIndex)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE QueuedEntries SET queue_index = queue_index + 1 WHERE queue_index >= ? AND queue_index < ?",
			newIndex, oldIndex)
	}
	if err != nil {
		return fmt.Errorf("store: MoveInQueue: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE QueuedEntries SET queue_index = ? WHERE queue_index = -1", newIndex); err != nil {
		return fmt.Errorf("store: MoveInQueue: %w", err)
	}
	return tx.Commit()
}

// FindQueueIndex resolves the queue_index for a (playlist_id, entry_id).
func (s *Store) FindQueueIndex(ctx context.Context, playlistID, entryID int64) (int64, error) {
	var idx int64
	err := s.db.QueryRowContext(ctx,
		"SELECT queue_index FROM QueuedEntries WHERE playlist_id = ? AND entry_id = ?",
		playlistID, entryID).Scan(&idx)
	if err != nil {
		return 0, fmt.Errorf("store: FindQueueIndex: %w", err)
	}
	return idx, nil
}
