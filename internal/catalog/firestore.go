package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const songsCollection = "Songs"

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) List(ctx context.Context) ([]Record, error) {
	snaps, err := s.client.Collection(songsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	records := make([]Record, 0, len(snaps))
	for _, snap := range snaps {
		var rec Record
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode song %s: %w", snap.Ref.ID, err)
		}
		rec.ID = snap.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (Record, error) {
	snap, err := s.client.Collection(songsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get song %s: %w", id, err)
	}

	var rec Record
	if err := snap.DataTo(&rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode song %s: %w", id, err)
	}
	rec.ID = snap.Ref.ID
	return rec, nil
}

func (s *FirestoreStore) Create(ctx context.Context, rec Record) (string, error) {
	ref, _, err := s.client.Collection(songsCollection).Add(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("failed to add song: %w", err)
	}
	return ref.ID, nil
}

// Update replaces every field of an existing song, Lyrics included
func (s *FirestoreStore) Update(ctx context.Context, id string, rec Record) error {
	_, err := s.client.Collection(songsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "Title", Value: rec.Title},
		{Path: "Artists", Value: rec.Artists},
		{Path: "Category", Value: rec.Category},
		{Path: "Lyrics", Value: map[string]string(rec.Lyrics)},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update song %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.Collection(songsCollection).Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete song %s: %w", id, err)
	}
	return nil
}
