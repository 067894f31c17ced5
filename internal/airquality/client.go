// Package airquality consumes the AQICN public feed (https://aqicn.org).
// The console shows its reports alongside account management; nothing in the
// authentication core depends on it.
package airquality

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrServiceUnavailable is the single error callers see for any provider
// failure: timeout, connection error, non-2xx status, a status!=ok payload or
// malformed JSON. Details are logged, not returned, so callers never branch
// on provider internals.
var ErrServiceUnavailable = errors.New("airquality: service unavailable")

const (
	DefaultBaseURL = "https://api.waqi.info"
	DefaultTimeout = 10 * time.Second
)

// Client fetches air quality reports for a city.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	// limiter throttles calls so the console stays polite toward the free
	// public endpoint even if a user hammers the menu.
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient returns a Client against baseURL. An empty token falls back to
// the provider's "demo" token, which is rate-limited but keyless.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if token == "" {
		token = "demo"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 3),
		logger:     logger,
	}
}

// Report is a processed air quality observation for one monitoring station.
type Report struct {
	AQI        int
	Station    string
	ObservedAt string

	// Pollutants maps pollutant code (pm25, pm10, o3, no2, so2, co) to its
	// individual index value. Absent pollutants are absent keys.
	Pollutants map[string]float64

	Temperature *float64
	Humidity    *float64
	Pressure    *float64
}

// Level reports the classification band for the report's AQI.
func (r Report) Level() Level { return Classify(r.AQI) }

// feedResponse mirrors the provider's JSON envelope.
type feedResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type feedData struct {
	AQI  int `json:"aqi"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	IAQI map[string]struct {
		V float64 `json:"v"`
	} `json:"iaqi"`
	Time struct {
		S string `json:"s"`
	} `json:"time"`
}

// pollutantCodes are the IAQI entries surfaced as pollutants; the remaining
// meteorological codes (t, h, p) are mapped to their own fields.
var pollutantCodes = []string{"pm25", "pm10", "o3", "no2", "so2", "co"}

// FetchCity retrieves the current report for a city by name.
func (c *Client) FetchCity(ctx context.Context, city string) (Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Report{}, fmt.Errorf("airquality: city must not be empty")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Report{}, err
	}

	endpoint := fmt.Sprintf("%s/feed/%s/?token=%s",
		c.BaseURL, url.PathEscape(city), url.QueryEscape(c.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Report{}, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Warn("air quality request failed", "city", city, "error", err)
		return Report{}, ErrServiceUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("air quality request returned non-OK status",
			"city", city, "status", resp.StatusCode)
		return Report{}, ErrServiceUnavailable
	}

	var envelope feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logger.Warn("air quality response malformed", "city", city, "error", err)
		return Report{}, ErrServiceUnavailable
	}
	if envelope.Status != "ok" {
		c.logger.Warn("air quality provider rejected request",
			"city", city, "status", envelope.Status)
		return Report{}, ErrServiceUnavailable
	}

	var data feedData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		c.logger.Warn("air quality payload malformed", "city", city, "error", err)
		return Report{}, ErrServiceUnavailable
	}

	return buildReport(data), nil
}

func buildReport(data feedData) Report {
	report := Report{
		AQI:        data.AQI,
		Station:    data.City.Name,
		ObservedAt: data.Time.S,
		Pollutants: make(map[string]float64),
	}

	for _, code := range pollutantCodes {
		if entry, ok := data.IAQI[code]; ok {
			report.Pollutants[code] = entry.V
		}
	}
	if entry, ok := data.IAQI["t"]; ok {
		v := entry.V
		report.Temperature = &v
	}
	if entry, ok := data.IAQI["h"]; ok {
		v := entry.V
		report.Humidity = &v
	}
	if entry, ok := data.IAQI["p"]; ok {
		v := entry.V
		report.Pressure = &v
	}
	return report
}
