package store

// schemaDDL creates the relational tables backing playlists, their entries,
// and the play queue. Shared between the production store opener and tests
// so the schema is defined once.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS Playlists (
	id              INTEGER PRIMARY KEY,
	playlist_index  INTEGER NOT NULL,
	title           TEXT NOT NULL DEFAULT '',
	entries_count   INTEGER NOT NULL DEFAULT 0,
	duration        INTEGER NOT NULL DEFAULT 0,
	size_of_entries INTEGER NOT NULL DEFAULT 0,
	crc32           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS PlaylistsEntries (
	playlist_id     INTEGER NOT NULL,
	entry_id        INTEGER NOT NULL,
	entry_index     INTEGER NOT NULL,
	album           TEXT NOT NULL DEFAULT '',
	artist          TEXT NOT NULL DEFAULT '',
	date            TEXT NOT NULL DEFAULT '',
	filename        TEXT NOT NULL DEFAULT '',
	genre           TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL DEFAULT '',
	bitrate         INTEGER NOT NULL DEFAULT 0,
	channels_count  INTEGER NOT NULL DEFAULT 0,
	duration        INTEGER NOT NULL DEFAULT 0,
	filesize        INTEGER NOT NULL DEFAULT 0,
	rating          INTEGER NOT NULL DEFAULT 0,
	samplerate      INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (playlist_id, entry_id)
);

CREATE INDEX IF NOT EXISTS idx_entries_playlist_order
	ON PlaylistsEntries (playlist_id, entry_index);

CREATE TABLE IF NOT EXISTS QueuedEntries (
	playlist_id  INTEGER NOT NULL,
	entry_id     INTEGER NOT NULL,
	queue_index  INTEGER NOT NULL,
	PRIMARY KEY (playlist_id, entry_id)
);

CREATE INDEX IF NOT EXISTS idx_queue_order ON QueuedEntries (queue_index);
`
