package redirect

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const redirectsCollection = "redirects"

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) List(ctx context.Context) ([]Redirect, error) {
	snaps, err := s.client.Collection(redirectsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list redirects: %w", err)
	}
	return decodeAll(snaps)
}

// FindBySlug returns the first redirect with the slug
func (s *FirestoreStore) FindBySlug(ctx context.Context, slug string) (Redirect, error) {
	snaps, err := s.client.Collection(redirectsCollection).
		Where("slug", "==", slug).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return Redirect{}, fmt.Errorf("failed to query slug %s: %w", slug, err)
	}
	if len(snaps) == 0 {
		return Redirect{}, ErrNotFound
	}

	redirects, err := decodeAll(snaps)
	if err != nil {
		return Redirect{}, err
	}
	return redirects[0], nil
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (Redirect, error) {
	snap, err := s.client.Collection(redirectsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Redirect{}, ErrNotFound
	}
	if err != nil {
		return Redirect{}, fmt.Errorf("failed to get redirect %s: %w", id, err)
	}

	redirects, err := decodeAll([]*firestore.DocumentSnapshot{snap})
	if err != nil {
		return Redirect{}, err
	}
	return redirects[0], nil
}

func (s *FirestoreStore) Create(ctx context.Context, r Redirect) (string, error) {
	ref, _, err := s.client.Collection(redirectsCollection).Add(ctx, r)
	if err != nil {
		return "", fmt.Errorf("failed to add redirect: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.Collection(redirectsCollection).Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete redirect %s: %w", id, err)
	}
	return nil
}

func decodeAll(snaps []*firestore.DocumentSnapshot) ([]Redirect, error) {
	redirects := make([]Redirect, 0, len(snaps))
	for _, snap := range snaps {
		var r Redirect
		if err := snap.DataTo(&r); err != nil {
			return nil, fmt.Errorf("failed to decode redirect %s: %w", snap.Ref.ID, err)
		}
		r.ID = snap.Ref.ID
		redirects = append(redirects, r)
	}
	return redirects, nil
}
