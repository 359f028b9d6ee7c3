package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Location is a navigation target split into its parts.
type Location struct {
	// Path is the path part, always starting with "/" and without a trailing
	// slash (except for root).
	Path string

	// Query is the raw query string (without leading "?").
	Query string

	// Fragment is the raw fragment (without leading "#").
	Fragment string
}

// Path errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in segment")
)

// Parse splits a navigation target into path, query and fragment and
// normalizes the path.
//
// The following transformations are applied:
//   - Fragment ("#...") and query ("?...") are cut off
//   - A missing leading slash is added
//   - One trailing slash is removed (except for root "/")
//
// Empty inner segments are kept as-is, so "/a//b" stays "/a//b" and never
// matches a pattern with two segments.
//
// The following inputs are rejected:
//   - Paths containing backslash (\)
//   - Paths containing NUL byte (literal or %00)
//   - Invalid percent-escapes (e.g., %GG, %2)
//   - Absolute URLs ("http://", "https://", "//")
func Parse(input string) (Location, error) {
	rest, fragment, _ := strings.Cut(input, "#")
	path, query, _ := strings.Cut(rest, "?")

	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") {
		return Location{}, ErrInvalidPath
	}

	// SECURITY: Reject backslash.
	if strings.Contains(path, "\\") {
		return Location{}, ErrBackslashInPath
	}

	// SECURITY: Reject NUL byte (both literal and encoded).
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Location{}, ErrNullByteInPath
	}

	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Location{}, err
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}

	return Location{Path: path, Query: query, Fragment: fragment}, nil
}

// Values parses the query string. Malformed pairs are dropped.
func (l Location) Values() url.Values {
	v, _ := url.ParseQuery(l.Query)
	return v
}

// String rebuilds the target from its parts.
func (l Location) String() string {
	s := l.Path
	if l.Query != "" {
		s += "?" + l.Query
	}
	if l.Fragment != "" {
		s += "#" + l.Fragment
	}
	return s
}

// Segments splits a normalized path into its segments.
// Root yields no segments. Empty inner segments are preserved.
func Segments(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// validatePercentEscapes checks that all percent-escapes are valid.
// Valid escapes are %XX where X is a hex digit (0-9, a-f, A-F).
func validatePercentEscapes(path string) error {
	i := 0
	for i < len(path) {
		if path[i] == '%' {
			if i+2 >= len(path) {
				return ErrInvalidPercentEscape
			}
			if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
				return ErrInvalidPercentEscape
			}
			i += 3
		} else {
			i++
		}
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// DecodeSegment decodes a single path segment.
// If decoding produces "/" (i.e., %2F was present) an error is returned,
// since a capture must never span more than one segment.
func DecodeSegment(segment string) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}

	// SECURITY: reject %2F to prevent path smuggling.
	if strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}

	return decoded, nil
}

// EscapeSegment escapes a value for use as a single path segment.
func EscapeSegment(value string) string {
	return url.PathEscape(value)
}
