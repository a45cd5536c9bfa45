package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Geocoder resolves a postal code to coordinates and a UTC offset.
type Geocoder interface {
	Lookup(ctx context.Context, zipCode string) (*Coordinates, error)
}

// GeocodeError represents a failed lookup against the geocoding provider.
// Any transport error, non-2xx status or undecodable payload collapses into
// this type; callers treat all of them as the provider being unavailable.
type GeocodeError struct {
	ZipCode string
	Message string
	Cause   error
}

func (e *GeocodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("geocode error for zip %s: %s (caused by: %v)", e.ZipCode, e.Message, e.Cause)
	}
	return fmt.Sprintf("geocode error for zip %s: %s", e.ZipCode, e.Message)
}

func (e *GeocodeError) Unwrap() error {
	return e.Cause
}

// OpenWeatherClient implements Geocoder against the OpenWeather
// current-weather API. It performs a single attempt per lookup: no caching,
// no retry, so repeated zip codes re-issue identical upstream calls.
type OpenWeatherClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenWeatherClient creates a new OpenWeather geocode client.
// The timeout bounds each lookup; zero means 10 seconds.
func NewOpenWeatherClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *OpenWeatherClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenWeatherClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Lookup fetches latitude, longitude and timezone offset for a zip code.
func (c *OpenWeatherClient) Lookup(ctx context.Context, zipCode string) (*Coordinates, error) {
	params := url.Values{}
	params.Set("zip", zipCode)
	params.Set("appid", c.apiKey)
	requestURL := c.baseURL + "/data/2.5/weather?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &GeocodeError{ZipCode: zipCode, Message: "failed to build request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Geocode request failed", zap.String("zip_code", zipCode), zap.Error(err))
		return nil, &GeocodeError{ZipCode: zipCode, Message: "provider unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Geocode provider returned error status",
			zap.String("zip_code", zipCode),
			zap.Int("status", resp.StatusCode))
		return nil, &GeocodeError{
			ZipCode: zipCode,
			Message: fmt.Sprintf("provider returned status %d", resp.StatusCode),
		}
	}

	var payload weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Error("Geocode response malformed", zap.String("zip_code", zipCode), zap.Error(err))
		return nil, &GeocodeError{ZipCode: zipCode, Message: "malformed provider response", Cause: err}
	}

	return &Coordinates{
		Latitude:  payload.Coord.Lat,
		Longitude: payload.Coord.Lon,
		Timezone:  payload.Timezone,
	}, nil
}
