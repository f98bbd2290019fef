// Package weather fetches current conditions and a multi-day forecast from
// OpenWeatherMap. One Fetch yields the full bundle; callers are expected to
// wrap it in a TTL cache rather than hitting the upstream per request.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Config identifies the upstream account and location.
type Config struct {
	APIKey  string
	City    string
	Country string
	Units   string // "metric" or "imperial"
	BaseURL string // override for tests; empty means the real API
}

// Client calls the OpenWeatherMap current-conditions and forecast endpoints.
type Client struct {
	cfg     Config
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client using the given HTTP client for transport.
func NewClient(client *http.Client, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Units == "" {
		cfg.Units = "metric"
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		cfg: cfg,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// Fetch retrieves current conditions and the 5-day forecast in one bundle.
func (c *Client) Fetch(ctx context.Context) (Bundle, error) {
	if c.cfg.APIKey == "" {
		return Bundle{}, fmt.Errorf("openweathermap api key is not configured")
	}

	current, err := c.fetchCurrent(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("current conditions: %w", err)
	}

	forecast, err := c.fetchForecast(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("forecast: %w", err)
	}

	return Bundle{Current: current, Forecast: forecast}, nil
}

func (c *Client) query() url.Values {
	values := url.Values{}
	values.Set("appid", c.cfg.APIKey)
	values.Set("units", c.cfg.Units)
	q := c.cfg.City
	if c.cfg.Country != "" {
		q = fmt.Sprintf("%s,%s", c.cfg.City, c.cfg.Country)
	}
	values.Set("q", q)
	return values
}

func (c *Client) fetchCurrent(ctx context.Context) (Current, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/weather?%s", c.cfg.BaseURL, c.query().Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return Current{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Current{}, err
	}

	observed := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		observed = time.Now().UTC()
	}

	var description, icon string
	if len(payload.Weather) > 0 {
		description = payload.Weather[0].Description
		icon = payload.Weather[0].Icon
	}

	return Current{
		TemperatureC: payload.Main.Temp,
		FeelsLikeC:   payload.Main.FeelsLike,
		HumidityPct:  payload.Main.Humidity,
		PressureHpa:  payload.Main.Pressure,
		WindSpeedMS:  payload.Wind.Speed,
		Description:  description,
		Icon:         icon,
		Condition:    mapCondition(description),
		ObservedAt:   observed,
	}, nil
}

func (c *Client) fetchForecast(ctx context.Context) ([]ForecastEntry, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/forecast?%s", c.cfg.BaseURL, c.query().Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt    int64  `json:"dt"`
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp     float64 `json:"temp"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	// The feed is 3-hourly; the midday entry stands in for each day.
	var entries []ForecastEntry
	for _, item := range payload.List {
		if !strings.Contains(item.DtTxt, "12:00:00") {
			continue
		}

		var description, icon string
		if len(item.Weather) > 0 {
			description = item.Weather[0].Description
			icon = item.Weather[0].Icon
		}

		entries = append(entries, ForecastEntry{
			Date:         time.Unix(item.Dt, 0).UTC(),
			TemperatureC: item.Main.Temp,
			HumidityPct:  item.Main.Humidity,
			Description:  description,
			Icon:         icon,
			Condition:    mapCondition(description),
		})
		if len(entries) >= 5 {
			break
		}
	}

	return entries, nil
}
