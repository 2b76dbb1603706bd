package store

import (
	"fmt"
	"hash/crc32"
)

// EntryCRCFields is the subset of a PlaylistEntry row that feeds the
// entries CRC32 fold, in playlist order.
type EntryCRCFields struct {
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

// PropertiesCRC32 folds a playlist's (title, entries_count, duration,
// size_of_entries) into a 32-bit checksum.
func PropertiesCRC32(title string, entriesCount, duration, sizeOfEntries int64) uint32 {
	buf := fmt.Sprintf("%s|%d|%d|%d", title, entriesCount, duration, sizeOfEntries)
	return crc32.ChecksumIEEE([]byte(buf))
}

// EntriesCRC32 folds each entry's fixed field set, in playlist order, into
// a single 32-bit checksum. Re-ordering entries changes the result.
func EntriesCRC32(entries []EntryCRCFields) uint32 {
	h := crc32.NewIEEE()
	for _, e := range entries {
		fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%d|%d|%d|%d|%d|%d;",
			e.Album, e.Artist, e.Date, e.Filename, e.Genre, e.Title,
			e.Bitrate, e.ChannelsCount, e.Duration, e.Filesize, e.Rating, e.Samplerate)
	}
	return h.Sum32()
}

// FoldCRC32 combines a playlist's properties CRC32 and entries CRC32 into
// the playlist's overall crc32, per the properties-then-entries fold order.
func FoldCRC32(propertiesCRC, entriesCRC uint32) uint32 {
	buf := fmt.Sprintf("%d|%d", propertiesCRC, entriesCRC)
	return crc32.ChecksumIEEE([]byte(buf))
}
