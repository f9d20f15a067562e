package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/karaokedesk/internal/db"
	"github.com/sukalov/karaokedesk/internal/lyrics/lrc"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]Record
	nextID  int
	failAll error
}

func newMemStore(records ...Record) *memStore {
	s := &memStore{records: make(map[string]Record)}
	for _, rec := range records {
		s.records[rec.ID] = rec
	}
	return s
}

func (s *memStore) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	var out []Record
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

func (s *memStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *memStore) Create(ctx context.Context, rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return "", s.failAll
	}
	s.nextID++
	rec.ID = fmt.Sprintf("song-%d", s.nextID)
	s.records[rec.ID] = rec
	return rec.ID, nil
}

func (s *memStore) Update(ctx context.Context, id string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	rec.ID = id
	s.records[id] = rec
	return nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type memAudit struct {
	entries []db.Entry
	err     error
}

func (a *memAudit) Record(ctx context.Context, entry db.Entry) error {
	a.entries = append(a.entries, entry)
	return a.err
}

func TestService_GetSortsLyricsNumerically(t *testing.T) {
	store := newMemStore(Record{
		ID:       "abc",
		Title:    "Song",
		Artists:  "Band",
		Category: []string{"pop"},
		Lyrics:   lrc.Mapping{"10.00": "x", "9.00": "y", "62.50": "z"},
	})
	svc := NewService(store, nil)

	song, err := svc.Get(context.Background(), "abc")
	require.NoError(t, err)

	want := lrc.Track{{Time: 9, Text: "y"}, {Time: 10, Text: "x"}, {Time: 62.5, Text: "z"}}
	if diff := cmp.Diff(want, song.Lyrics); diff != "" {
		t.Errorf("lyrics mismatch (-want +got):\n%s", diff)
	}

	text, err := svc.LRC(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "[0:9.00]y\n[0:10.00]x\n[1:2.50]z", text)
}

func TestService_GetNotFound(t *testing.T) {
	svc := NewService(newMemStore(), nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.LRC(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_GetMalformedKey(t *testing.T) {
	store := newMemStore(Record{ID: "bad", Title: "Bad", Lyrics: lrc.Mapping{"soon": "x"}})
	svc := NewService(store, nil)

	_, err := svc.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, lrc.ErrMalformedKey)
}

func TestService_LRCRejectsNegativeKey(t *testing.T) {
	store := newMemStore(Record{ID: "neg", Title: "Neg", Lyrics: lrc.Mapping{"-5.00": "neg", "1.00": "ok"}})

	text, err := NewService(store, nil).LRC(context.Background(), "neg")
	assert.ErrorIs(t, err, lrc.ErrMalformedKey)
	assert.Empty(t, text)
}

func TestService_List(t *testing.T) {
	store := newMemStore(
		Record{ID: "2", Title: "Zebra", Lyrics: lrc.Mapping{"1.00": "z"}},
		Record{ID: "1", Title: "Apple", Lyrics: lrc.Mapping{"2.00": "b", "1.00": "a"}},
		Record{ID: "3", Title: "Broken", Lyrics: lrc.Mapping{"x": "y"}},
	)
	svc := NewService(store, nil)

	songs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, songs, 2)

	assert.Equal(t, "Apple", songs[0].Title)
	assert.Equal(t, "Zebra", songs[1].Title)
	assert.Equal(t, "a", songs[0].Lyrics[0].Text)
	assert.Equal(t, []string{}, songs[0].Category)
}

func TestService_ListStoreError(t *testing.T) {
	store := newMemStore()
	store.failAll = errors.New("unavailable")

	_, err := NewService(store, nil).List(context.Background())
	assert.EqualError(t, err, "unavailable")
}

func TestService_Create(t *testing.T) {
	store := newMemStore()
	audit := &memAudit{}
	svc := NewService(store, audit)

	song, err := svc.Create(context.Background(), "admin@example.com", Form{
		Title:    "  Hello  ",
		Artists:  "Adele",
		Category: []string{"ballad", " ", "pop "},
		LRC:      "[0:01.00]a\n[0:01.00]b\n[1:02.50]hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "song-1", song.ID)
	assert.Equal(t, "Hello", song.Title)
	assert.Equal(t, []string{"ballad", "pop"}, song.Category)
	assert.Equal(t, lrc.Track{{Time: 1, Text: "b"}, {Time: 62.5, Text: "hello"}}, song.Lyrics)

	stored := store.records["song-1"]
	assert.Equal(t, lrc.Mapping{"1.00": "b", "62.50": "hello"}, stored.Lyrics)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, db.ActionSongCreated, audit.entries[0].Action)
	assert.Equal(t, "admin@example.com", audit.entries[0].Actor)
	assert.Equal(t, "song-1", audit.entries[0].Target)
}

func TestService_CreateStoreError(t *testing.T) {
	store := newMemStore()
	cause := errors.New("quota exceeded")
	store.failAll = cause
	audit := &memAudit{}

	_, err := NewService(store, audit).Create(context.Background(), "a", Form{Title: "Hello", LRC: "[0:01.00]a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `failed to create song "Hello": quota exceeded`, err.Error())
	assert.Empty(t, audit.entries)
}

func TestService_CreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want error
	}{
		{name: "no title", form: Form{Title: " ", LRC: "[0:01.00]a"}, want: ErrInvalidSong},
		{name: "stray line", form: Form{Title: "t", LRC: "[0:01.00]a\nchorus"}, want: ErrInvalidLyrics},
		{name: "trailing newline", form: Form{Title: "t", LRC: "[0:01.00]a\n"}, want: ErrInvalidLyrics},
		{name: "empty lyrics", form: Form{Title: "t", LRC: ""}, want: ErrInvalidLyrics},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			_, err := NewService(store, nil).Create(context.Background(), "a", tt.form)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, store.records)
		})
	}
}

func TestService_UpdateReplacesLyrics(t *testing.T) {
	store := newMemStore(Record{ID: "s", Title: "Old", Lyrics: lrc.Mapping{"1.00": "old", "5.00": "gone"}})
	audit := &memAudit{}
	svc := NewService(store, audit)

	song, err := svc.Update(context.Background(), "admin", "s", Form{Title: "New", LRC: "[0:02.00]new"})
	require.NoError(t, err)

	assert.Equal(t, "New", song.Title)
	assert.Equal(t, lrc.Mapping{"2.00": "new"}, store.records["s"].Lyrics)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, db.ActionSongUpdated, audit.entries[0].Action)

	_, err = svc.Update(context.Background(), "admin", "missing", Form{Title: "x", LRC: "[0:01.00]x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	store := newMemStore(Record{ID: "s", Title: "Song"})
	audit := &memAudit{err: errors.New("audit down")}
	svc := NewService(store, audit)

	// audit failures don't fail the change
	require.NoError(t, svc.Delete(context.Background(), "admin", "s"))
	assert.Empty(t, store.records)
	assert.Len(t, audit.entries, 1)

	assert.ErrorIs(t, svc.Delete(context.Background(), "admin", "s"), ErrNotFound)
}

func TestValidateLRC(t *testing.T) {
	track, ok := ValidateLRC("[0:10.00]x\n[0:09.00]y")
	require.True(t, ok)
	assert.Equal(t, lrc.Track{{Time: 9, Text: "y"}, {Time: 10, Text: "x"}}, track)

	_, ok = ValidateLRC("[0:10.00]x\n")
	assert.False(t, ok)
}

func TestFormatSongName(t *testing.T) {
	assert.Equal(t, "Adele - Hello", FormatSongName(Song{Title: "Hello", Artists: "Adele"}))
	assert.Equal(t, "Hello", FormatSongName(Song{Title: "Hello"}))
}
