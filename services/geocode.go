package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JaneshKapoor/nayraa/models"
)

const defaultGeocodeBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Viewport deltas used for every region update; the map always opens at the
// same zoom level.
const (
	viewportLatitudeDelta  = 0.0922
	viewportLongitudeDelta = 0.0421
)

var (
	// ErrEmptyQuery rejects blank input locally, before any network call.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrNoResults means the service answered but matched nothing.
	ErrNoResults = errors.New("no results for search query")
)

// SearchError is a transport, status or decode failure, distinct from a
// clean zero-result answer.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("failed to search location: %v", e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// GeocoderClient is a thin wrapper around the Google Geocoding API. Only
// the first result of a lookup is used.
type GeocoderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGeocoderClient(baseURL, apiKey string) *GeocoderClient {
	if baseURL == "" {
		baseURL = defaultGeocodeBaseURL
	}
	return &GeocoderClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Search resolves free-text input to the first geocoding match.
func (c *GeocoderClient) Search(ctx context.Context, text string) (*models.GeocodeResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}

	u := fmt.Sprintf("%s?address=%s&key=%s", c.baseURL, url.QueryEscape(text), c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &SearchError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SearchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SearchError{Err: fmt.Errorf("geocoding service returned status %d", resp.StatusCode)}
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &SearchError{Err: fmt.Errorf("failed to decode geocoding response: %w", err)}
	}

	if len(data.Results) == 0 {
		return nil, ErrNoResults
	}

	first := data.Results[0]
	return &models.GeocodeResult{
		FormattedAddress: first.FormattedAddress,
		Coordinates: models.Coordinates{
			Latitude:  first.Geometry.Location.Lat,
			Longitude: first.Geometry.Location.Lng,
		},
	}, nil
}

// SearchSummary renders the on-screen summary for a geocoding result, with
// coordinates rounded to six decimal places.
func SearchSummary(result *models.GeocodeResult) string {
	return fmt.Sprintf("Location: %s\nCoordinates: %.6f, %.6f",
		result.FormattedAddress,
		result.Coordinates.Latitude,
		result.Coordinates.Longitude)
}

// RegionAround centers the map viewport on a coordinate pair.
func RegionAround(coords models.Coordinates) models.Region {
	return models.Region{
		Latitude:       coords.Latitude,
		Longitude:      coords.Longitude,
		LatitudeDelta:  viewportLatitudeDelta,
		LongitudeDelta: viewportLongitudeDelta,
	}
}
