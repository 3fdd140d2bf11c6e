package model

import (
	"strings"
	"time"
)

// MaxHistoryEntries caps both the local store and the merged list.
const MaxHistoryEntries = 20

// EntryType tells whether an entry came from a check or a generation.
type EntryType string

const (
	EntryChecked   EntryType = "checked"
	EntryGenerated EntryType = "generated"
)

// HistoryEntry is a client-synthesized record of a past check or generation.
// It describes the password's traits only; there is no field that could hold
// the password itself.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Timestamp    string    `json:"timestamp"`
	Rating       Rating    `json:"rating"`
	Length       int       `json:"length"`
	HasUppercase bool      `json:"has_uppercase"`
	HasLowercase bool      `json:"has_lowercase"`
	HasNumbers   bool      `json:"has_numbers"`
	HasSymbols   bool      `json:"has_symbols"`
	IsCommon     bool      `json:"is_common"`
	Type         EntryType `json:"type"`
	Generated    bool      `json:"generated,omitempty"`
}

// TimestampLayout matches the ISO-8601 form browsers emit (millisecond precision, UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Time parses the entry timestamp. Server timestamps may omit the zone, in
// which case UTC is assumed. Unparseable timestamps yield the zero time.
func (e HistoryEntry) Time() time.Time {
	ts := strings.TrimSpace(e.Timestamp)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IsGenerated reports whether the entry came from the generator.
func (e HistoryEntry) IsGenerated() bool {
	return e.Type == EntryGenerated || e.Generated
}

// HistoryResponse is the payload of the history endpoint.
type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

// HistoryFilter selects which entries the history panel shows.
// The zero value shows everything.
type HistoryFilter struct {
	Rating Rating
}

// FilterAll shows every entry.
var FilterAll = HistoryFilter{}

// FilterByRating shows only entries with the given rating.
func FilterByRating(r Rating) HistoryFilter {
	return HistoryFilter{Rating: r}
}

// Match reports whether e passes the filter.
func (f HistoryFilter) Match(e HistoryEntry) bool {
	return f.Rating == "" || e.Rating == f.Rating
}

// Apply returns the entries that pass the filter, preserving order.
func (f HistoryFilter) Apply(entries []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Next cycles All -> Weak -> Medium -> Strong -> All.
func (f HistoryFilter) Next() HistoryFilter {
	if f.Rating == "" {
		return FilterByRating(Ratings[0])
	}
	for i, r := range Ratings {
		if r == f.Rating && i+1 < len(Ratings) {
			return FilterByRating(Ratings[i+1])
		}
	}
	return FilterAll
}

func (f HistoryFilter) String() string {
	if f.Rating == "" {
		return "All"
	}
	return string(f.Rating)
}

// ParseHistoryFilter accepts "all" or a rating name, case-insensitively.
func ParseHistoryFilter(s string) (HistoryFilter, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return FilterAll, true
	}
	for _, r := range Ratings {
		if strings.EqualFold(s, string(r)) {
			return FilterByRating(r), true
		}
	}
	return FilterAll, false
}
