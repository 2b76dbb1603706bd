// Package format implements the printf-like format-string mini-language
// used by GetFormattedEntryTitle and by GetPlaylistEntries' format mode:
// single-letter field substitutions plus a %IF(cond,then,else) conditional,
// with %-escaping for literal '%', ',' and ')'. Hand-rolled recursive
// descent; no library in the reference corpus implements a grammar like
// this, and text/template's escaping and argument model don't fit
// %IF's comma/paren-delimited, %-escaped arguments.
package format

import "fmt"

// Fields supplies the single-letter substitutions a format string may
// reference. A code missing from the map is a Render error.
type Fields map[byte]string

// FieldsFromEntry builds the standard field set for a playlist entry.
func FieldsFromEntry(album, artist, date, filename, genre, title string, bitrate, channels, duration, filesize, rating, samplerate int64) Fields {
	return Fields{
		'A': album,
		'a': artist,
		'B': fmt.Sprintf("%d", bitrate),
		'C': fmt.Sprintf("%d", channels),
		'F': filename,
		'G': genre,
		'H': fmt.Sprintf("%d", samplerate),
		'L': fmt.Sprintf("%d", duration),
		'R': artist,
		'S': fmt.Sprintf("%d", filesize),
		'T': title,
		'Y': date,
		'M': fmt.Sprintf("%d", rating),
	}
}

// Render expands a format string against fields. Malformed input (an
// unknown %-escape, or an unterminated %IF) is a caller-visible error the
// methods layer maps to WRONG_ARGUMENT.
func Render(s string, fields Fields) (string, error) {
	out, pos, err := renderSegment(s, 0, "", fields)
	if err != nil {
		return "", err
	}
	if pos != len(s) {
		return "", fmt.Errorf("format: unexpected trailing input at %d", pos)
	}
	return out, nil
}

// renderSegment renders s[pos:] until it hits a byte in stop (not
// consumed) or end of string, handling %-escapes and %IF(...) along the
// way. stop == "" means "run to end of string".
func renderSegment(s string, pos int, stop string, fields Fields) (string, int, error) {
	var out []byte
	for pos < len(s) {
		c := s[pos]
		if stop != "" && containsByte(stop, c) {
			return string(out), pos, nil
		}
		if c != '%' {
			out = append(out, c)
			pos++
			continue
		}

		pos++
		if pos >= len(s) {
			return "", 0, fmt.Errorf("format: dangling %% at end of string")
		}
		esc := s[pos]
		switch esc {
		case '%', ',', ')':
			out = append(out, esc)
			pos++
		case 'I':
			rendered, next, err := renderIf(s, pos, fields)
			if err != nil {
				return "", 0, err
			}
			out = append(out, rendered...)
			pos = next
		default:
			val, ok := fields[esc]
			if !ok {
				return "", 0, fmt.Errorf("format: unknown field code %%%c", esc)
			}
			out = append(out, val...)
			pos++
		}
	}
	return string(out), pos, nil
}

// renderIf parses and evaluates %IF(cond,then,else) starting at the 'I' of
// "IF(...)" (pos points at 'I'). Returns the rendered replacement and the
// position just past the closing ')'.
func renderIf(s string, pos int, fields Fields) (string, int, error) {
	if pos+2 >= len(s) || s[pos+1] != 'F' || s[pos+2] != '(' {
		return "", 0, fmt.Errorf("format: expected IF( at position %d", pos)
	}
	pos += 3

	cond, pos, err := renderSegment(s, pos, ",", fields)
	if err != nil {
		return "", 0, err
	}
	pos, err = expect(s, pos, ',')
	if err != nil {
		return "", 0, err
	}

	thenBranch, pos, err := renderSegment(s, pos, ",", fields)
	if err != nil {
		return "", 0, err
	}
	pos, err = expect(s, pos, ',')
	if err != nil {
		return "", 0, err
	}

	elseBranch, pos, err := renderSegment(s, pos, ")", fields)
	if err != nil {
		return "", 0, err
	}
	pos, err = expect(s, pos, ')')
	if err != nil {
		return "", 0, err
	}

	if cond == "" {
		return elseBranch, pos, nil
	}
	return thenBranch, pos, nil
}

func expect(s string, pos int, want byte) (int, error) {
	if pos >= len(s) || s[pos] != want {
		return 0, fmt.Errorf("format: expected %q at position %d", want, pos)
	}
	return pos + 1, nil
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
