package page

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sukalov/karaokedesk/internal/logger"
)

const maxPageSize = 5 << 20

// Client represents the HTTP client for lyrics pages
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new page HTTP client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				// gzip is decoded by hand below
				DisableCompression: true,
			},
		},
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	}
}

// FetchPage fetches the HTML content from the given URL
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create HTTP request\nURL: %s\nError: %v", url, err))
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to fetch page\nURL: %s\nError: %v", url, err))
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error(fmt.Sprintf("HTTP error fetching page\nURL: %s\nStatus: %d", url, resp.StatusCode))
		return "", fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body

	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create gzip reader\nURL: %s\nError: %v", url, err))
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxPageSize))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to read response body\nURL: %s\nError: %v", url, err))
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
