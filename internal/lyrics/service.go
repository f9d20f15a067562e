package lyrics

import (
	"context"
	"fmt"
	"time"

	"github.com/sukalov/karaokedesk/internal/logger"
	"github.com/sukalov/karaokedesk/internal/lyrics/lrc"
	"github.com/sukalov/karaokedesk/internal/lyrics/parsers/page"
)

const (
	draftStart = 0
	draftStep  = 4
)

// DraftResult is an imported page turned into LRC text that still needs timing
type DraftResult struct {
	URL       string    `json:"url"`
	LRC       string    `json:"lrc"`
	Lines     int       `json:"lines"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Extractor interface {
	Extract(ctx context.Context, url string) (*page.Result, error)
}

// Service handles lyrics import from web pages
type Service struct {
	extractor Extractor
}

// NewService creates a new lyrics service
func NewService(extractor Extractor) *Service {
	return &Service{extractor: extractor}
}

// DraftFromURL extracts the lyrics on a page and stamps them every few
// seconds, producing text that passes lrc.IsWellFormed.
func (s *Service) DraftFromURL(ctx context.Context, url string) (*DraftResult, error) {
	logger.Debug(fmt.Sprintf("DraftFromURL called with URL: %s", url))

	result, err := s.extractor.Extract(ctx, url)
	if err != nil {
		logger.Error(fmt.Sprintf("Lyrics extraction failed for URL: %s\nError: %v", url, err))
		return nil, err
	}

	track := lrc.Draft(result.Lines, draftStart, draftStep)

	logger.Debug(fmt.Sprintf("DraftFromURL succeeded for URL: %s\nLines: %d", url, len(track)))

	return &DraftResult{
		URL:       result.URL,
		LRC:       track.String(),
		Lines:     len(track),
		FetchedAt: result.FetchedAt,
	}, nil
}
