package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sukalov/karaokedesk/internal/db"
	"github.com/sukalov/karaokedesk/internal/logger"
	"github.com/sukalov/karaokedesk/internal/lyrics/lrc"
)

type Auditor interface {
	Record(ctx context.Context, entry db.Entry) error
}

// Service handles the song catalog. Lyrics leave it in time order.
type Service struct {
	store Store
	audit Auditor
}

// NewService creates a catalog service. audit may be nil.
func NewService(store Store, audit Auditor) *Service {
	return &Service{store: store, audit: audit}
}

// List returns every song ordered by title. Songs whose lyrics can't be
// ordered are logged and left out.
func (s *Service) List(ctx context.Context) ([]Song, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	songs := make([]Song, 0, len(records))
	for _, rec := range records {
		song, err := toSong(rec)
		if err != nil {
			logger.Error(fmt.Sprintf("Skipping song with broken lyrics\nID: %s\nError: %v", rec.ID, err))
			continue
		}
		songs = append(songs, song)
	}

	sort.SliceStable(songs, func(i, j int) bool {
		if songs[i].Title != songs[j].Title {
			return songs[i].Title < songs[j].Title
		}
		return songs[i].ID < songs[j].ID
	})
	return songs, nil
}

func (s *Service) Get(ctx context.Context, id string) (Song, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Song{}, err
	}

	song, err := toSong(rec)
	if err != nil {
		return Song{}, fmt.Errorf("song %s: %w", id, err)
	}
	return song, nil
}

// LRC returns the lyrics of a song as LRC text, ready for editing
func (s *Service) LRC(ctx context.Context, id string) (string, error) {
	song, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return song.Lyrics.String(), nil
}

func (s *Service) Create(ctx context.Context, actor string, form Form) (Song, error) {
	rec, err := form.toRecord()
	if err != nil {
		return Song{}, err
	}

	id, err := s.store.Create(ctx, rec)
	if err != nil {
		return Song{}, logger.LogWithErr(fmt.Sprintf("failed to create song %q", rec.Title), err)
	}
	rec.ID = id

	s.record(ctx, actor, db.ActionSongCreated, id, fmt.Sprintf("%s (%d lines)", rec.Title, len(rec.Lyrics)))
	return toSong(rec)
}

// Update replaces the song's fields, lyrics included
func (s *Service) Update(ctx context.Context, actor, id string, form Form) (Song, error) {
	rec, err := form.toRecord()
	if err != nil {
		return Song{}, err
	}

	if err := s.store.Update(ctx, id, rec); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error(fmt.Sprintf("Failed to update song\nID: %s\nError: %v", id, err))
		}
		return Song{}, err
	}
	rec.ID = id

	s.record(ctx, actor, db.ActionSongUpdated, id, fmt.Sprintf("%s (%d lines)", rec.Title, len(rec.Lyrics)))
	return toSong(rec)
}

func (s *Service) Delete(ctx context.Context, actor, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error(fmt.Sprintf("Failed to delete song\nID: %s\nError: %v", id, err))
		}
		return err
	}

	s.record(ctx, actor, db.ActionSongDeleted, id, "")
	return nil
}

// ValidateLRC reports whether text would be accepted by Create and Update,
// and what it would be stored as.
func ValidateLRC(text string) (lrc.Track, bool) {
	if !lrc.IsWellFormed(text) {
		return nil, false
	}
	track, err := lrc.Normalize(lrc.Parse(text))
	if err != nil {
		return nil, false
	}
	return track, true
}

func (s *Service) record(ctx context.Context, actor, action, target, detail string) {
	if s.audit == nil {
		return
	}
	entry := db.Entry{Actor: actor, Action: action, Target: target, Detail: detail}
	if err := s.audit.Record(ctx, entry); err != nil {
		logger.Error(fmt.Sprintf("Failed to write audit entry\nAction: %s\nTarget: %s\nError: %v", action, target, err))
	}
}
