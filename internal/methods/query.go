package methods

import (
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/format"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/store"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func registerQueryMethods(reg *dispatch.Registry, deps Deps) {
	reg.Register("GetPlaylists", getPlaylists(deps))
	reg.Register("GetPlaylistEntries", getPlaylistEntries(deps))
	reg.Register("GetEntryPositionInDataTable", getEntryPositionInDataTable(deps))
	reg.Register("GetQueuedEntries", getQueuedEntries(deps))
	reg.Register("GetPlaylistEntryInfo", getPlaylistEntryInfo(deps))
	reg.Register("GetPlaylistEntriesCount", getPlaylistEntriesCount(deps))
}

func getPlaylists(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		fields, _ := stringArrayField(params, "fields")
		if len(fields) == 0 {
			fields = store.DefaultPlaylistFields
		}

		rows, err := deps.Store.GetPlaylists(c.Std(), fields)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "%v", err)
		}

		out := value.Array()
		for _, row := range rows {
			obj := value.Object()
			for _, f := range fields {
				obj.Set(f, anyToValue(row[f]))
			}
			out.Append(obj)
		}
		return dispatch.ImmediateResult(out), nil
	}
}

// queryOptionsFromParams builds store.QueryOptions from the shared
// GetPlaylistEntries/GetQueuedEntries/GetEntryPositionInDataTable
// argument set.
func queryOptionsFromParams(params value.Value, mode store.QueryMode, st player.Status) (store.QueryOptions, error) {
	opts := store.QueryOptions{Mode: mode, EntriesCount: -1}

	if mode == store.ModeEntries {
		playlistID := intField(params, "playlist_id", player.Sentinel)
		if playlistID == player.Sentinel {
			if st.PlaybackState == player.StateStopped {
				return store.QueryOptions{}, dispatch.NewFault(dispatch.FaultPlaylistNotFound, "no playlist is currently playing")
			}
			playlistID = st.Playlist
		}
		opts.PlaylistID = playlistID
	}

	opts.FormatString = stringField(params, "format_string", "")
	if opts.FormatString == "" {
		if fields, ok := stringArrayField(params, "fields"); ok {
			opts.Fields = fields
		} else {
			opts.Fields = store.DefaultEntryFields
		}
	}

	opts.StartIndex = int(intField(params, "start_index", 0))
	opts.EntriesCount = int(intField(params, "entries_count", -1))
	opts.SearchString = stringField(params, "search_string", "")

	if orderVal, ok := params.Get("order_fields"); ok {
		for _, item := range orderVal.Items() {
			field := stringField(item, "field", "")
			dir := stringField(item, "dir", "asc")
			if field == "" {
				continue
			}
			opts.OrderFields = append(opts.OrderFields, store.OrderField{Field: field, Dir: dir})
		}
	}

	return opts, nil
}

func renderEntriesPage(page store.EntryPage) value.Value {
	out := value.Object()
	out.Set("total_entries_count", value.Int(page.TotalEntriesCount))
	out.Set("count_of_found_entries", value.Int(page.CountOfFoundEntries))

	entries := value.Array()
	for _, row := range page.Rows {
		if page.FormatMode {
			entries.Append(value.Int(anyToInt64(row["entry_id"])))
			continue
		}
		entries.Append(rowToValue(page.Fields, row))
	}
	out.Set("entries", entries)
	return out
}

// renderFormatModeEntries re-renders page.Rows through the format engine;
// RunQuery only projects (playlist_id, entry_id) in format mode, so the
// caller must re-fetch each entry's full field set to feed the formatter.
func renderFormatModeEntries(c *dispatch.Context, deps Deps, page store.EntryPage, formatString string) (value.Value, error) {
	out := value.Object()
	out.Set("total_entries_count", value.Int(page.TotalEntriesCount))
	out.Set("count_of_found_entries", value.Int(page.CountOfFoundEntries))

	entries := value.Array()
	for _, row := range page.Rows {
		playlistID := anyToInt64(row["playlist_id"])
		entryID := anyToInt64(row["entry_id"])
		info, found, err := deps.Store.GetPlaylistEntryInfo(c.Std(), playlistID, entryID)
		if err != nil {
			return value.Value{}, err
		}
		if !found {
			entries.Append(value.String(""))
			continue
		}
		fields := format.FieldsFromEntry(
			anyToString(info["album"]), anyToString(info["artist"]), anyToString(info["date"]),
			anyToString(info["filename"]), anyToString(info["genre"]), anyToString(info["title"]),
			anyToInt64(info["bitrate"]), 0, anyToInt64(info["duration"]), anyToInt64(info["filesize"]),
			anyToInt64(info["rating"]), 0,
		)
		rendered, err := format.Render(formatString, fields)
		if err != nil {
			return value.Value{}, err
		}
		entries.Append(value.String(rendered))
	}
	out.Set("entries", entries)
	return out, nil
}

func getPlaylistEntries(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		opts, err := queryOptionsFromParams(params, store.ModeEntries, deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultPlaylistNotFound, "%v", err)
		}

		compiled, err := store.Compile(opts, false)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
		}
		page, err := deps.Store.RunQuery(c.Std(), compiled)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "%v", err)
		}

		if opts.FormatString != "" {
			result, err := renderFormatModeEntries(c, deps, page, opts.FormatString)
			if err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
			}
			return dispatch.ImmediateResult(result), nil
		}
		return dispatch.ImmediateResult(renderEntriesPage(page)), nil
	}
}

func getQueuedEntries(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		opts, err := queryOptionsFromParams(params, store.ModeQueue, deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
		}

		compiled, err := store.Compile(opts, false)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
		}
		page, err := deps.Store.RunQuery(c.Std(), compiled)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "%v", err)
		}
		return dispatch.ImmediateResult(renderEntriesPage(page)), nil
	}
}

func getEntryPositionInDataTable(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		trackID := intField(params, "track_id", -1)

		opts, err := queryOptionsFromParams(params, store.ModeEntries, deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
		}
		opts.Fields = forceIDField(opts.Fields)
		opts.FormatString = ""

		compiled, err := store.Compile(opts, true)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
		}
		page, err := deps.Store.RunQuery(c.Std(), compiled)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "%v", err)
		}

		entriesPerPage := opts.EntriesCount
		if entriesPerPage < 0 {
			entriesPerPage = 0
		}
		pageNumber, indexOnPage := store.FindEntryPosition(page.Rows, trackID, entriesPerPage)

		out := value.Object()
		out.Set("page_number", value.Int(int64(pageNumber)))
		out.Set("track_index_on_page", value.Int(int64(indexOnPage)))
		return dispatch.ImmediateResult(out), nil
	}
}

func forceIDField(fields []string) []string {
	for _, f := range fields {
		if f == "id" {
			return fields
		}
	}
	return append([]string{"id"}, fields...)
}

func getPlaylistEntryInfo(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		desc, err := resolveAgainstStatus(trackDescFromParams(params), deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "%v", err)
		}

		row, found, err := deps.Store.GetPlaylistEntryInfo(c.Std(), desc.PlaylistID, desc.TrackID)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "%v", err)
		}
		if !found {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "no such entry (%d, %d)", desc.PlaylistID, desc.TrackID)
		}

		out := value.Object()
		for k, v := range row {
			out.Set(k, anyToValue(v))
		}
		return dispatch.ImmediateResult(out), nil
	}
}

func getPlaylistEntriesCount(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		playlistID := intField(params, "playlist_id", player.Sentinel)
		if playlistID == player.Sentinel {
			playlistID = deps.Engine.Status().Playlist
		}
		count, err := deps.Store.GetPlaylistEntriesCount(c.Std(), playlistID)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "%v", err)
		}
		return dispatch.ImmediateResult(value.Int(count)), nil
	}
}
