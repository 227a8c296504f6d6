package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrInvalidSort = errors.New("invalid sort order")

const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

// NoteQuery narrows and orders a user's notes.
type NoteQuery struct {
	Search string
	Tag    string
	Sort   string
}

// ParseNoteQuery validates the raw query parameters. An empty sort means
// newest first.
func ParseNoteQuery(search, tag, order string) (NoteQuery, error) {
	switch order {
	case "":
		order = SortNewest
	case SortNewest, SortOldest, SortTitle:
	default:
		return NoteQuery{}, fmt.Errorf("%w: %q", ErrInvalidSort, order)
	}

	return NoteQuery{
		Search: search,
		Tag:    strings.ToLower(strings.TrimSpace(tag)),
		Sort:   order,
	}, nil
}

// Matches reports whether note passes the search and tag filters.
func (q NoteQuery) Matches(note Note) bool {
	if q.Tag != "" && !containsString(note.Tags, q.Tag) {
		return false
	}
	if q.Search == "" {
		return true
	}

	term := strings.ToLower(q.Search)
	if strings.Contains(strings.ToLower(note.Title), term) ||
		strings.Contains(strings.ToLower(note.Content), term) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(tag, term) {
			return true
		}
	}
	return false
}

// Apply filters notes and returns them in the requested order.
func (q NoteQuery) Apply(notes []Note) []Note {
	filtered := make([]Note, 0, len(notes))
	for _, note := range notes {
		if q.Matches(note) {
			filtered = append(filtered, note)
		}
	}

	switch q.Sort {
	case SortOldest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		})
	case SortTitle:
		// Collators keep internal buffers and are not safe to share.
		c := collate.New(language.Und)
		sort.SliceStable(filtered, func(i, j int) bool {
			return c.CompareString(filtered[i].Title, filtered[j].Title) < 0
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}
	return filtered
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
