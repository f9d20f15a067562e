package redirect

import (
	"context"
	"errors"
	"regexp"
)

// MainSlug is what the site root resolves to
const MainSlug = "main"

var (
	ErrNotFound    = errors.New("redirect not found")
	ErrInvalidSlug = errors.New("slug may only contain letters, digits, hyphens and underscores")
	ErrInvalidURL  = errors.New("url must be a valid http or https address")
	ErrSlugTaken   = errors.New("slug is already in use")
)

var (
	slugRegex = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
	urlRegex  = regexp.MustCompile(`^(https?://[^\s$.?#].[^\s]*)$`)
)

type Redirect struct {
	ID   string `firestore:"-" json:"id"`
	Slug string `firestore:"slug" json:"slug"`
	URL  string `firestore:"url" json:"url"`
	Hits int64  `firestore:"-" json:"hits"`
}

type Store interface {
	List(ctx context.Context) ([]Redirect, error)
	FindBySlug(ctx context.Context, slug string) (Redirect, error)
	Get(ctx context.Context, id string) (Redirect, error)
	Create(ctx context.Context, r Redirect) (string, error)
	Delete(ctx context.Context, id string) error
}

// Cache keeps resolved URLs and per-slug hit counters
type Cache interface {
	GetURL(ctx context.Context, slug string) (string, bool, error)
	SetURL(ctx context.Context, slug, url string) error
	Invalidate(ctx context.Context, slug string) error
	IncrementHits(ctx context.Context, slug string) error
	Hits(ctx context.Context) (map[string]int64, error)
}

func ValidateSlug(slug string) error {
	if !slugRegex.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

func ValidateURL(url string) error {
	if !urlRegex.MatchString(url) {
		return ErrInvalidURL
	}
	return nil
}
