package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/metrics"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	forecastPath   = "/data/2.5/forecast"
	maxBodyBytes   = 1 << 20
)

// LiveConfig configures the OpenWeather client.
type LiveConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RatePerSecond and Burst bound outbound calls. Zero disables limiting.
	RatePerSecond float64
	Burst         int
}

// LiveProvider calls the OpenWeather 5-day/3-hour forecast endpoint.
type LiveProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	log        *logrus.Logger
}

func NewLive(cfg LiveConfig, log *logrus.Logger) *LiveProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return &LiveProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    limiter,
		log:        log,
	}
}

func (p *LiveProvider) Lookup(ctx context.Context, location string) (*Report, error) {
	report, err := p.lookup(ctx, location)
	if err != nil {
		metrics.RecordWeatherLookup("live", "error")
		p.log.WithError(err).WithField("location", location).Warn("weather lookup failed")
		return nil, apperror.Upstream("Weather API error", errors.New(p.redact(err.Error())))
	}
	metrics.RecordWeatherLookup("live", "ok")
	return report, nil
}

func (p *LiveProvider) lookup(ctx context.Context, location string) (*Report, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", p.apiKey)
	q.Set("units", "metric")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+forecastPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return parseForecast(location, body)
}

// parseForecast extracts current conditions from the first list entry and the
// first ForecastSlots entries as the forecast.
func parseForecast(location string, body []byte) (*Report, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("malformed response: invalid JSON")
	}
	items := gjson.GetBytes(body, "list").Array()
	if len(items) == 0 {
		return nil, errors.New("malformed response: empty forecast list")
	}

	curr := items[0]
	temp := curr.Get("main.temp")
	humidity := curr.Get("main.humidity")
	desc := curr.Get("weather.0.description")
	if !temp.Exists() || !humidity.Exists() || !desc.Exists() {
		return nil, errors.New("malformed response: missing current conditions")
	}

	n := len(items)
	if n > ForecastSlots {
		n = ForecastSlots
	}
	forecast := make([]ForecastEntry, 0, n)
	for _, item := range items[:n] {
		slotTemp := item.Get("main.temp")
		if !slotTemp.Exists() {
			return nil, errors.New("malformed response: forecast entry without temperature")
		}
		slotTime := item.Get("dt_txt")
		if !slotTime.Exists() {
			return nil, errors.New("malformed response: forecast entry without time")
		}
		forecast = append(forecast, ForecastEntry{
			Time: slotTime.String(),
			Temp: slotTemp.Float(),
			Rain: item.Get("rain.3h").Float(),
		})
	}

	return &Report{
		Location: location,
		Mock:     false,
		Current: Conditions{
			Temp:     temp.Float(),
			Humidity: humidity.Float(),
			Desc:     desc.String(),
		},
		Forecast: forecast,
		Alerts:   Alerts(forecast),
	}, nil
}

// redact strips the API key from transport errors, which embed the full URL.
func (p *LiveProvider) redact(s string) string {
	if p.apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, p.apiKey, "REDACTED")
}
