package envclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/syncapi"
)

const maxResponseSize = 10 << 20

// Client talks to one remote environment's replication API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a client for the given environment.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// ImportBatch pushes the batch to the remote environment, one request per
// entity, venues and artists first so the shows can reference them.
func (c *Client) ImportBatch(ctx context.Context, batch importer.Batch, dryRun bool) (*importer.BatchResult, error) {
	result := &importer.BatchResult{}

	if len(batch.Venues) > 0 {
		var resp syncapi.ImportResponse
		req := syncapi.ImportVenuesRequest{DryRun: dryRun, Records: batch.Venues}
		if err := c.post(ctx, "/import/venues", req, &resp); err != nil {
			return nil, err
		}
		result.Venues = resp.Result.Venues
	}

	if len(batch.Artists) > 0 {
		var resp syncapi.ImportResponse
		req := syncapi.ImportArtistsRequest{DryRun: dryRun, Records: batch.Artists}
		if err := c.post(ctx, "/import/artists", req, &resp); err != nil {
			return nil, err
		}
		result.Artists = resp.Result.Artists
	}

	if len(batch.Shows) > 0 {
		var resp syncapi.ImportResponse
		req := syncapi.ImportShowsRequest{DryRun: dryRun, Records: batch.Shows}
		if err := c.post(ctx, "/import/shows", req, &resp); err != nil {
			return nil, err
		}
		result.Shows = resp.Result.Shows
	}

	return result, nil
}

// ExportShows pages through the remote environment's shows.
func (c *Client) ExportShows(ctx context.Context, status string) ([]canonical.Candidate, error) {
	var shows []canonical.Candidate
	for page := 1; ; page++ {
		var resp syncapi.ExportShowsResponse
		q := url.Values{"status": {status}, "page": {strconv.Itoa(page)}}
		if err := c.get(ctx, "/export/shows", q, &resp); err != nil {
			return nil, err
		}
		for _, s := range resp.Shows {
			shows = append(shows, s.Candidate)
		}
		if len(resp.Shows) == 0 || int64(len(shows)) >= resp.Total {
			break
		}
	}
	return shows, nil
}

// ExportShowSlugs lists the remote environment's show slugs.
func (c *Client) ExportShowSlugs(ctx context.Context, status string) ([]string, error) {
	var resp syncapi.ExportSlugsResponse
	q := url.Values{"status": {status}}
	if err := c.get(ctx, "/export/show-slugs", q, &resp); err != nil {
		return nil, err
	}
	return resp.Slugs, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", req.URL.Path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
