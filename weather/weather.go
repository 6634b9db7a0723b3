// Package weather looks up current conditions and a short forecast for a
// location, either from OpenWeather or from a fixed mock.
package weather

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	HeavyRainAlert = "Heavy rain expected"
	NoAlerts       = "No severe alerts"

	// HeavyRainMM is the per-slot rain amount above which an alert is raised.
	HeavyRainMM = 5.0
	// ForecastSlots is how many forecast entries a live report keeps.
	ForecastSlots = 5
)

type Report struct {
	Location string          `json:"location"`
	Mock     bool            `json:"mock"`
	Current  Conditions      `json:"current"`
	Forecast []ForecastEntry `json:"forecast_3h"`
	Alerts   []string        `json:"alerts"`
}

type Conditions struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Desc     string  `json:"desc"`
}

type ForecastEntry struct {
	Time string  `json:"time"`
	Temp float64 `json:"temp"`
	Rain float64 `json:"rain"`
}

type Provider interface {
	Lookup(ctx context.Context, location string) (*Report, error)
}

// Alerts returns one heavy-rain alert per qualifying forecast entry, or the
// single no-alerts message. Repeated alerts are kept as-is.
func Alerts(forecast []ForecastEntry) []string {
	var alerts []string
	for _, f := range forecast {
		if f.Rain > HeavyRainMM {
			alerts = append(alerts, HeavyRainAlert)
		}
	}
	if len(alerts) == 0 {
		return []string{NoAlerts}
	}
	return alerts
}

// NewProvider picks the mock when no API key is set; otherwise the live
// client, fronted by cache when one is given.
func NewProvider(cfg LiveConfig, cache Cache, ttl time.Duration, log *logrus.Logger) Provider {
	if cfg.APIKey == "" {
		return NewMock()
	}
	var p Provider = NewLive(cfg, log)
	if cache != nil {
		p = NewCached(p, cache, ttl, log)
	}
	return p
}
