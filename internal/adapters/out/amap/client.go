// Package amap is the AMap (高德) web service adapter behind ports.GeoProvider.
//
// Every request waits on a client-side token bucket first, so a burst of
// planning requests does not trip the provider's QPS quota. When the provider
// still answers with its quota error, the call fails with an error wrapping
// errs.ErrRateLimited, which the router retries with backoff.
package amap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	providerName = "amap"

	DefaultBaseURL = "https://restapi.amap.com"
	DefaultTimeout = 5 * time.Second

	statusOK = "1"

	infoQuotaExceeded     = "CUQPS_HAS_EXCEEDED_THE_LIMIT"
	infoCodeQuotaExceeded = "10021"
)

var (
	ErrKeyIsRequired = errors.New("amap key is required")
	ErrNoResult      = errors.New("amap returned no result")
)

// APIError is a non-success answer from the provider.
type APIError struct {
	Info     string
	InfoCode string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("amap: %s (infocode %s)", e.Info, e.InfoCode)
}

// Config holds the connection settings of the client.
type Config struct {
	BaseURL string
	Key     string
	Timeout time.Duration
	// QPS caps outgoing requests per second; zero or less disables the limit.
	QPS float64
}

// Client calls the AMap geocoding and driving direction endpoints.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client. The key is mandatory; the base URL and timeout
// fall back to the public endpoint and DefaultTimeout.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, ErrKeyIsRequired
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("amap base url", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limit := rate.Inf
	burst := 1
	if cfg.QPS > 0 {
		limit = rate.Limit(cfg.QPS)
		burst = max(1, int(cfg.QPS))
	}

	c := &Client{
		baseURL:    baseURL,
		key:        cfg.Key,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Geocode resolves an address to the coordinate of its first match.
func (c *Client) Geocode(ctx context.Context, address string) (kernel.Coordinate, error) {
	var resp geocodeResponse
	if err := c.get(ctx, "/v3/geocode/geo", url.Values{"address": {address}}, &resp); err != nil {
		return kernel.Coordinate{}, err
	}

	if len(resp.Geocodes) == 0 {
		return kernel.Coordinate{}, fmt.Errorf("geocode %q: %w", address, ErrNoResult)
	}

	return kernel.ParseCoordinate(resp.Geocodes[0].Location)
}

// ReverseGeocode resolves a coordinate to its province, city and district.
func (c *Client) ReverseGeocode(ctx context.Context, point kernel.Coordinate) (route.Place, error) {
	var resp regeoResponse
	if err := c.get(ctx, "/v3/geocode/regeo", url.Values{"location": {point.String()}}, &resp); err != nil {
		return route.Place{}, err
	}

	component := resp.Regeocode.AddressComponent
	return route.Place{
		Province: string(component.Province),
		City:     string(component.City),
		District: string(component.District),
	}, nil
}

// Direction requests the first driving path for one strategy, with its full
// polyline.
func (c *Client) Direction(
	ctx context.Context,
	origin, destination kernel.Coordinate,
	strategy route.StrategyKey,
) (route.Direction, error) {
	params := url.Values{
		"origin":      {origin.String()},
		"destination": {destination.String()},
		"strategy":    {strconv.Itoa(int(strategy))},
		"extensions":  {"all"},
	}

	var resp drivingResponse
	if err := c.get(ctx, "/v3/direction/driving", params, &resp); err != nil {
		return route.Direction{}, err
	}

	if len(resp.Route.Paths) == 0 {
		return route.Direction{}, fmt.Errorf("driving %s -> %s: %w", origin, destination, ErrNoResult)
	}

	return resp.Route.Paths[0].toDirection()
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out envelopeCarrier) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("key", c.key)
	params.Set("output", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode == http.StatusTooManyRequests {
		return errs.NewRateLimitedError(providerName, fmt.Errorf("http status %d", res.StatusCode))
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("amap %s: http status %d", path, res.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("amap %s: decode response: %w", path, err)
	}

	return out.header().err()
}

type envelopeCarrier interface {
	header() envelope
}

type envelope struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	InfoCode string `json:"infocode"`
}

func (e envelope) err() error {
	if e.Status == statusOK {
		return nil
	}

	apiErr := &APIError{Info: e.Info, InfoCode: e.InfoCode}
	if e.Info == infoQuotaExceeded || e.InfoCode == infoCodeQuotaExceeded {
		return errs.NewRateLimitedError(providerName, apiErr)
	}
	return apiErr
}

type geocodeResponse struct {
	envelope
	Geocodes []struct {
		Location string `json:"location"`
	} `json:"geocodes"`
}

func (r *geocodeResponse) header() envelope { return r.envelope }

type regeoResponse struct {
	envelope
	Regeocode struct {
		AddressComponent struct {
			Province lenientString `json:"province"`
			City     lenientString `json:"city"`
			District lenientString `json:"district"`
		} `json:"addressComponent"`
	} `json:"regeocode"`
}

func (r *regeoResponse) header() envelope { return r.envelope }

type drivingResponse struct {
	envelope
	Route struct {
		Paths []drivingPath `json:"paths"`
	} `json:"route"`
}

func (r *drivingResponse) header() envelope { return r.envelope }

type drivingPath struct {
	Distance lenientString `json:"distance"`
	Duration lenientString `json:"duration"`
	Tolls    lenientString `json:"tolls"`
	Steps    []struct {
		Polyline string `json:"polyline"`
	} `json:"steps"`
}

func (p drivingPath) toDirection() (route.Direction, error) {
	distance, err := atoi("distance", string(p.Distance))
	if err != nil {
		return route.Direction{}, err
	}

	duration, err := atoi("duration", string(p.Duration))
	if err != nil {
		return route.Direction{}, err
	}

	var tolls decimal.NullDecimal
	if s := strings.TrimSpace(string(p.Tolls)); s != "" {
		amount, parseErr := decimal.NewFromString(s)
		if parseErr != nil {
			return route.Direction{}, errs.NewValueIsInvalidErrorWithCause("tolls", parseErr)
		}
		tolls = decimal.NewNullDecimal(amount)
	}

	var path []kernel.Coordinate
	for _, step := range p.Steps {
		for _, point := range strings.Split(step.Polyline, ";") {
			if strings.TrimSpace(point) == "" {
				continue
			}
			c, parseErr := kernel.ParseCoordinate(point)
			if parseErr != nil {
				return route.Direction{}, parseErr
			}
			path = append(path, c)
		}
	}

	return route.Direction{
		DistanceMeters:  distance,
		DurationSeconds: duration,
		TollCost:        tolls,
		Path:            path,
	}, nil
}

func atoi(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return n, nil
}

// lenientString accepts a JSON string, number, or the empty array AMap sends
// for missing values (e.g. "city": [] for municipalities).
type lenientString string

func (s *lenientString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null" || strings.HasPrefix(trimmed, "["):
		*s = ""
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = lenientString(v)
		return nil
	default:
		*s = lenientString(trimmed)
		return nil
	}
}
