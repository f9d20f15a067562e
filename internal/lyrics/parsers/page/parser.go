package page

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sukalov/karaokedesk/internal/logger"
)

// Parser pulls lyric lines out of the element matched by a CSS selector
type Parser struct {
	client   *Client
	selector string
}

// NewParser creates a page parser. An empty selector means "pre".
func NewParser(selector string) *Parser {
	if strings.TrimSpace(selector) == "" {
		selector = "pre"
	}
	return &Parser{
		client:   NewClient(),
		selector: selector,
	}
}

// Extract fetches url and returns the cleaned lyric lines found under the selector
func (p *Parser) Extract(ctx context.Context, url string) (*Result, error) {
	logger.Debug(fmt.Sprintf("Extract: Fetching page %s", url))

	html, err := p.client.FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	lines, err := p.ExtractFromHTML(html)
	if err != nil {
		logger.Error(fmt.Sprintf("Extract: No lyrics for URL %s\nSelector: %s\nError: %v", url, p.selector, err))
		return nil, err
	}

	logger.Debug(fmt.Sprintf("Extract: Found %d lines for URL %s", len(lines), url))

	return &Result{
		URL:       url,
		Lines:     lines,
		FetchedAt: time.Now(),
	}, nil
}

// ExtractFromHTML does the selection and cleanup on an already fetched page
func (p *Parser) ExtractFromHTML(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(p.selector).First()
	if selection.Length() == 0 {
		return nil, ErrNoLyrics
	}

	// <br> carries the line structure in most lyric markup
	selection.Find("br").ReplaceWithHtml("\n")
	selection.Find("script, style").Remove()

	lines := processTextLines(selection.Text())
	if len(lines) == 0 {
		return nil, ErrNoLyrics
	}
	return lines, nil
}
