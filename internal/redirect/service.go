package redirect

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sukalov/karaokedesk/internal/db"
	"github.com/sukalov/karaokedesk/internal/logger"
)

type Auditor interface {
	Record(ctx context.Context, entry db.Entry) error
}

type Service struct {
	store Store
	cache Cache
	audit Auditor
}

// NewService creates a redirect service. cache and audit may be nil.
func NewService(store Store, cache Cache, audit Auditor) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	return &Service{store: store, cache: cache, audit: audit}
}

// Resolve returns the target URL of a slug and counts the visit.
// An empty slug resolves MainSlug.
func (s *Service) Resolve(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		slug = MainSlug
	}

	url, ok, err := s.cache.GetURL(ctx, slug)
	if err != nil {
		logger.Error(fmt.Sprintf("Redirect cache lookup failed\nSlug: %s\nError: %v", slug, err))
	}

	if !ok {
		r, err := s.store.FindBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		url = r.URL

		if err := s.cache.SetURL(ctx, slug, url); err != nil {
			logger.Error(fmt.Sprintf("Failed to cache redirect\nSlug: %s\nError: %v", slug, err))
		}
	}

	if err := s.cache.IncrementHits(ctx, slug); err != nil {
		logger.Error(fmt.Sprintf("Failed to count redirect hit\nSlug: %s\nError: %v", slug, err))
	}
	return url, nil
}

// List returns every redirect with its hit count, ordered by slug
func (s *Service) List(ctx context.Context) ([]Redirect, error) {
	redirects, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	hits, err := s.cache.Hits(ctx)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to read redirect hits\nError: %v", err))
	}
	for i := range redirects {
		redirects[i].Hits = hits[redirects[i].Slug]
	}

	sort.SliceStable(redirects, func(i, j int) bool {
		return redirects[i].Slug < redirects[j].Slug
	})
	return redirects, nil
}

func (s *Service) Add(ctx context.Context, actor, slug, url string) (Redirect, error) {
	if err := ValidateSlug(slug); err != nil {
		return Redirect{}, err
	}
	if err := ValidateURL(url); err != nil {
		return Redirect{}, err
	}

	_, err := s.store.FindBySlug(ctx, slug)
	switch {
	case err == nil:
		return Redirect{}, ErrSlugTaken
	case !errors.Is(err, ErrNotFound):
		return Redirect{}, err
	}

	r := Redirect{Slug: slug, URL: url}
	r.ID, err = s.store.Create(ctx, r)
	if err != nil {
		return Redirect{}, logger.LogWithErr(fmt.Sprintf("failed to add redirect %s", slug), err)
	}

	s.record(ctx, actor, db.ActionRedirectAdded, slug, url)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, actor, id string) error {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error(fmt.Sprintf("Failed to delete redirect\nID: %s\nError: %v", id, err))
		}
		return err
	}

	if err := s.cache.Invalidate(ctx, r.Slug); err != nil {
		logger.Error(fmt.Sprintf("Failed to invalidate redirect cache\nSlug: %s\nError: %v", r.Slug, err))
	}

	s.record(ctx, actor, db.ActionRedirectDeleted, r.Slug, r.URL)
	return nil
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

type nopCache struct{}

func (nopCache) GetURL(ctx context.Context, slug string) (string, bool, error) { return "", false, nil }
func (nopCache) SetURL(ctx context.Context, slug, url string) error          { return nil }
func (nopCache) Invalidate(ctx context.Context, slug string) error           { return nil }
func (nopCache) IncrementHits(ctx context.Context, slug string) error        { return nil }
func (nopCache) Hits(ctx context.Context) (map[string]int64, error)          { return nil, nil }
