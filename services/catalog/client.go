// Package catalog is a minimal client for the external media catalog API
// (TMDB wire shapes: search, show seasons, season episodes).
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"showdeck/models"
)

// ErrUnavailable is returned for any transport failure or non-success status
// from the catalog. Callers treat it as transient; the client never retries.
var ErrUnavailable = errors.New("catalog unavailable")

const defaultBaseURL = "https://api.themoviedb.org/3"

// Client talks to the external catalog over HTTP.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewClient creates a catalog client. A nil http client gets a sane timeout.
func NewClient(apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpc:   httpc,
	}
}

// RemoteSeason is one season as the catalog reports it on a show.
type RemoteSeason struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	AirDate      string `json:"air_date"`
	PosterPath   string `json:"poster_path"`
}

// SeasonsResponse is the show lookup payload: the show name plus its seasons.
type SeasonsResponse struct {
	Name    string         `json:"name"`
	Seasons []RemoteSeason `json:"seasons"`
}

// RemoteEpisode is one episode within a season payload.
type RemoteEpisode struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	EpisodeNumber int    `json:"episode_number"`
	AirDate       string `json:"air_date"`
	StillPath     string `json:"still_path"`
}

// EpisodesResponse is the season lookup payload: the season name plus its episodes.
type EpisodesResponse struct {
	Name     string          `json:"name"`
	Episodes []RemoteEpisode `json:"episodes"`
}

type searchResponse struct {
	Results []struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		Name         string `json:"name"`
		ReleaseDate  string `json:"release_date"`
		FirstAirDate string `json:"first_air_date"`
		PosterPath   string `json:"poster_path"`
		MediaType    string `json:"media_type"`
	} `json:"results"`
}

// FetchSeasons returns the show's name and all of its seasons.
func (c *Client) FetchSeasons(ctx context.Context, catalogShowID int64) (SeasonsResponse, error) {
	var resp SeasonsResponse
	endpoint := fmt.Sprintf("%s/tv/%d", c.baseURL, catalogShowID)
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return SeasonsResponse{}, err
	}
	return resp, nil
}

// FetchEpisodes returns the named season's episode list for a show.
func (c *Client) FetchEpisodes(ctx context.Context, catalogShowID int64, seasonNumber int) (EpisodesResponse, error) {
	var resp EpisodesResponse
	endpoint := fmt.Sprintf("%s/tv/%d/season/%d", c.baseURL, catalogShowID, seasonNumber)
	if err := c.get(ctx, endpoint, nil, &resp); err != nil {
		return EpisodesResponse{}, err
	}
	return resp, nil
}

// Search runs a free-text multi search and flattens the movie/tv field split
// into models.CatalogResult. Results with other media types are dropped.
func (c *Client) Search(ctx context.Context, query string) ([]models.CatalogResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var resp searchResponse
	params := url.Values{"query": {query}}
	if err := c.get(ctx, c.baseURL+"/search/multi", params, &resp); err != nil {
		return nil, err
	}

	results := make([]models.CatalogResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.MediaType != "movie" && r.MediaType != "tv" {
			continue
		}
		title := r.Title
		if title == "" {
			title = r.Name
		}
		release := r.ReleaseDate
		if release == "" {
			release = r.FirstAirDate
		}
		results = append(results, models.CatalogResult{
			CatalogID:   r.ID,
			Title:       title,
			ReleaseDate: release,
			PosterPath:  r.PosterPath,
			MediaType:   r.MediaType,
		})
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
