package weather

import (
	"context"

	"github.com/smartkrishi/smart-krishi-api/metrics"
)

// MockProvider serves a fixed report. It is used whenever no OpenWeather key
// is configured.
type MockProvider struct{}

func NewMock() *MockProvider { return &MockProvider{} }

func (MockProvider) Lookup(_ context.Context, location string) (*Report, error) {
	metrics.RecordWeatherLookup("mock", "ok")
	return &Report{
		Location: location,
		Mock:     true,
		Current:  Conditions{Temp: 29, Humidity: 62, Desc: "Partly cloudy"},
		Forecast: []ForecastEntry{
			{Time: "+3h", Temp: 30, Rain: 0},
			{Time: "+6h", Temp: 31, Rain: 0},
			{Time: "+9h", Temp: 28, Rain: 1},
		},
		Alerts: []string{NoAlerts},
	}, nil
}
