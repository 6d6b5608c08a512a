package scraper

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/dbd-kakao-bot-go/internal/constants"
	"github.com/kapu/dbd-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// PageFetcher retrieves wiki pages and parses them into goquery documents.
type PageFetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPageFetcher(logger *zap.Logger) *PageFetcher {
	return &PageFetcher{
		httpClient: &http.Client{
			Timeout: constants.ScraperConfig.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= constants.ScraperConfig.MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", len(via))
				}
				return nil
			},
		},
		logger: logger,
	}
}

// Fetch downloads a page and returns the parsed document. Network failures,
// non-200 responses and unparseable bodies all come back as a FetchError.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewFetchError("failed to build request", url, 0, err)
	}

	req.Header.Set("User-Agent", constants.ScraperConfig.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewFetchError("wiki request failed", url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewFetchError(
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode), url, resp.StatusCode, nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.NewFetchError("failed to parse wiki page", url, resp.StatusCode, err)
	}

	f.logger.Debug("Wiki page fetched", zap.String("url", url))
	return doc, nil
}
