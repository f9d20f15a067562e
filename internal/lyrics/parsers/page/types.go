package page

import (
	"errors"
	"time"
)

var ErrNoLyrics = errors.New("could not find lyrics on the page")

// Result represents the lines extracted from a page
type Result struct {
	URL       string    `json:"url"`
	Lines     []string  `json:"lines"`
	FetchedAt time.Time `json:"fetched_at"`
}
