package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/sukalov/karaokedesk/internal/lyrics/lrc"
)

var (
	ErrNotFound      = errors.New("song not found")
	ErrInvalidSong   = errors.New("invalid song")
	ErrInvalidLyrics = errors.New("lyrics are not in LRC format")
)

// Record is a song as it is stored in the Songs collection
type Record struct {
	ID       string      `firestore:"-"`
	Title    string      `firestore:"Title"`
	Artists  string      `firestore:"Artists"`
	Category []string    `firestore:"Category"`
	Lyrics   lrc.Mapping `firestore:"Lyrics"`
}

// Song is a record with its lyrics put in time order
type Song struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Artists  string    `json:"artists"`
	Category []string  `json:"category"`
	Lyrics   lrc.Track `json:"lyrics"`
}

// Form is what an admin submits when creating or editing a song
type Form struct {
	Title    string   `json:"title"`
	Artists  string   `json:"artists"`
	Category []string `json:"category"`
	LRC      string   `json:"lrc"`
}

type Store interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, rec Record) (string, error)
	Update(ctx context.Context, id string, rec Record) error
	Delete(ctx context.Context, id string) error
}

func FormatSongName(song Song) string {
	if song.Artists == "" {
		return song.Title
	}
	return strings.TrimSpace(song.Artists + " - " + song.Title)
}

func toSong(rec Record) (Song, error) {
	track, err := lrc.Normalize(rec.Lyrics)
	if err != nil {
		return Song{}, err
	}
	category := rec.Category
	if category == nil {
		category = []string{}
	}
	return Song{
		ID:       rec.ID,
		Title:    rec.Title,
		Artists:  rec.Artists,
		Category: category,
		Lyrics:   track,
	}, nil
}

// toRecord checks the form and converts its LRC text into the stored mapping.
// The raw text has to pass lrc.IsWellFormed, so a trailing newline is rejected.
func (f Form) toRecord() (Record, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Record{}, errors.Join(ErrInvalidSong, errors.New("title is required"))
	}

	if !lrc.IsWellFormed(f.LRC) {
		return Record{}, ErrInvalidLyrics
	}

	category := []string{}
	for _, c := range f.Category {
		if c = strings.TrimSpace(c); c != "" {
			category = append(category, c)
		}
	}

	return Record{
		Title:    title,
		Artists:  strings.TrimSpace(f.Artists),
		Category: category,
		Lyrics:   lrc.Parse(f.LRC),
	}, nil
}
