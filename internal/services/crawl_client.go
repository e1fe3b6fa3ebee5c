package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"placesync/internal/models/request_models"
	"placesync/internal/models/response_models"
	"placesync/pkg/utils"
)

// CrawlClient talks to the external crawler. Every call blocks until the
// crawler has finished its own (asynchronous) pipeline.
type CrawlClient interface {
	CrawlPlaceData(ctx context.Context, searchQuery, placeName string) (*response_models.CrawlPlaceResponse, error)
	FetchPlaceImages(ctx context.Context, name, address string) (*response_models.CrawlImagesResponse, error)
	FetchPlaceMenus(ctx context.Context, name, address string) (*response_models.CrawlMenusResponse, error)
}

const maxCrawlResponseBytes = 16 << 20

type HTTPCrawlClient struct {
	HTTP    *http.Client
	BaseURL string
}

func NewHTTPCrawlClient(baseURL string, timeout time.Duration) *HTTPCrawlClient {
	return &HTTPCrawlClient{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	}
}

func (c *HTTPCrawlClient) CrawlPlaceData(ctx context.Context, searchQuery, placeName string) (*response_models.CrawlPlaceResponse, error) {
	var out response_models.CrawlPlaceResponse
	body := request_models.CrawlPlaceRequest{SearchQuery: searchQuery, PlaceName: placeName}
	if err := c.post(ctx, "/crawl/place", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCrawlClient) FetchPlaceImages(ctx context.Context, name, address string) (*response_models.CrawlImagesResponse, error) {
	var out response_models.CrawlImagesResponse
	body := request_models.CrawlTargetRequest{Name: name, Address: address}
	if err := c.post(ctx, "/crawl/images", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCrawlClient) FetchPlaceMenus(ctx context.Context, name, address string) (*response_models.CrawlMenusResponse, error) {
	var out response_models.CrawlMenusResponse
	body := request_models.CrawlTargetRequest{Name: name, Address: address}
	if err := c.post(ctx, "/crawl/menus", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCrawlClient) post(ctx context.Context, path string, body, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode crawl request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("build crawl request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", utils.ErrCrawlerUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: bad status %s: %s", utils.ErrCrawlerUnavailable, path, resp.Status, bytes.TrimSpace(snippet))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCrawlResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
