package lrc

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformedKey is returned when a persisted timestamp key is not a number
var ErrMalformedKey = errors.New("malformed timestamp key")

var (
	// [minutes:seconds.fraction]text, fraction required
	lineRegex = regexp.MustCompile(`^\[(\d+):(\d+\.\d+)\](.*)$`)
	// only the prefix matters for validation
	prefixRegex = regexp.MustCompile(`^\[\d+:\d+\.\d+\]`)
	// stored keys are non-negative plain decimals, as FormatKey writes them
	keyRegex = regexp.MustCompile(`^\d+\.\d+$`)
)

// Line is a single timed lyric line
type Line struct {
	Time float64 `json:"time"`
	Text string  `json:"text"`
}

// Track is an ordered list of lines. A normalized track is ascending by Time
type Track []Line

// Mapping is the persisted shape of a track: two-decimal seconds -> text.
// Key order carries no meaning, use Normalize before display or Format.
type Mapping map[string]string

// FormatKey renders seconds the way they are stored, with exactly two decimals
func FormatKey(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 2, 64)
}

// Parse converts LRC text to a mapping. Lines that don't look like
// [m:ss.xx]text are dropped without an error, and when two lines land on
// the same key the later one wins.
func Parse(text string) Mapping {
	result := make(Mapping)

	for _, line := range strings.Split(text, "\n") {
		match := lineRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		minutes, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		seconds, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}

		timestamp := minutes*60 + seconds
		if math.IsInf(timestamp, 0) {
			continue
		}

		result[FormatKey(timestamp)] = strings.TrimSpace(match[3])
	}

	return result
}

// IsWellFormed reports whether every line of text starts with a
// [digits:digits.digits] timestamp.
//
// It is stricter than Parse on purpose: a single bad line fails the whole
// text, and so does a trailing newline, because the empty last line has no
// timestamp. Empty input is not well formed either.
func IsWellFormed(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if !prefixRegex.MatchString(line) {
			return false
		}
	}
	return true
}

// Normalize orders a persisted mapping by numeric timestamp.
// "9.00" sorts before "10.00".
func Normalize(m Mapping) (Track, error) {
	type keyed struct {
		key  string
		line Line
	}

	entries := make([]keyed, 0, len(m))
	for key, text := range m {
		seconds, err := parseKey(key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, keyed{key: key, line: Line{Time: seconds, Text: text}})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].line.Time != entries[j].line.Time {
			return entries[i].line.Time < entries[j].line.Time
		}
		return entries[i].key < entries[j].key
	})

	track := make(Track, 0, len(entries))
	for _, e := range entries {
		track = append(track, e.line)
	}
	return track, nil
}

// Format serializes a persisted mapping back to LRC text, always in
// ascending timestamp order.
func Format(m Mapping) (string, error) {
	track, err := Normalize(m)
	if err != nil {
		return "", err
	}
	return track.String(), nil
}

// String renders the track as LRC text in its current order
func (t Track) String() string {
	var b strings.Builder
	for i, line := range t {
		if i > 0 {
			b.WriteByte('\n')
		}
		minutes := math.Floor(line.Time / 60)
		remainder := math.Mod(line.Time, 60)
		fmt.Fprintf(&b, "[%s:%s]%s",
			strconv.FormatFloat(minutes, 'f', 0, 64),
			strconv.FormatFloat(remainder, 'f', 2, 64),
			line.Text,
		)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// Mapping converts the track to its persisted shape
func (t Track) Mapping() Mapping {
	m := make(Mapping, len(t))
	for _, line := range t {
		m[FormatKey(line.Time)] = line.Text
	}
	return m
}

// Draft stamps plain lines with evenly spaced timestamps so they can be
// retimed by hand. Blank lines are skipped.
func Draft(lines []string, start, step float64) Track {
	var track Track
	at := start
	for _, line := range lines {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		track = append(track, Line{Time: at, Text: text})
		at += step
	}
	return track
}

func parseKey(key string) (float64, error) {
	if !keyRegex.MatchString(key) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	seconds, err := strconv.ParseFloat(key, 64)
	if err != nil || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	return seconds, nil
}
