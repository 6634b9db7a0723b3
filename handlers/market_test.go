package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/handlers"
	"github.com/smartkrishi/smart-krishi-api/models"
	"github.com/smartkrishi/smart-krishi-api/testutil"
	"github.com/smartkrishi/smart-krishi-api/weather"
)

type failingWeather struct{}

func (failingWeather) Lookup(context.Context, string) (*weather.Report, error) {
	return nil, apperror.Upstream("Weather API error", errors.New("401 invalid key"))
}

func TestWeatherMock(t *testing.T) {
	status, raw := get(t, newApp(nil), "/api/weather/Nagpur")

	require.Equal(t, http.StatusOK, status)
	r := decodeObject(t, raw)
	assert.Equal(t, "Nagpur", r["location"])
	assert.Equal(t, true, r["mock"])
	assert.Equal(t, map[string]any{"temp": 29.0, "humidity": 62.0, "desc": "Partly cloudy"}, r["current"])
	assert.Len(t, r["forecast_3h"], 3)
	assert.Equal(t, []any{weather.NoAlerts}, r["alerts"])
}

func TestWeatherKeepsEncodedLocation(t *testing.T) {
	status, raw := get(t, newApp(nil), "/api/weather/New%20Delhi")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "New Delhi", decodeObject(t, raw)["location"])
}

func TestWeatherUpstreamFailure(t *testing.T) {
	app := newApp(nil, func(d *handlers.Deps) { d.Weather = failingWeather{} })

	status, raw := get(t, app, "/api/weather/Pune")

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Weather API error: 401 invalid key", errorMessage(t, raw))
}

func TestMandiPricesFromStore(t *testing.T) {
	store := testutil.NewMemoryStore()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	store.Insert(models.MandiPriceCollection, bson.M{"district": "Pune", "crop": "Wheat", "price": 1900.0, "updatedAt": base})
	store.Insert(models.MandiPriceCollection, bson.M{"district": "Pune", "crop": "Wheat", "price": 1950.0, "updatedAt": base.Add(time.Hour)})
	store.Insert(models.MandiPriceCollection, bson.M{"district": "Nashik", "crop": "Onion", "price": 1200.0, "updatedAt": base})

	status, raw := get(t, newApp(store), "/api/mandi/Pune")

	require.Equal(t, http.StatusOK, status)
	list := decodeList(t, raw)
	require.Len(t, list, 2)
	assert.Equal(t, 1950.0, list[0]["price"])
	assert.Equal(t, 1900.0, list[1]["price"])
	assert.NotEmpty(t, list[0]["id"])
}

func TestMandiPricesFallback(t *testing.T) {
	want := []map[string]any{
		{"district": "Latur", "crop": "Wheat", "price": 1850.0, "updatedAt": "2025-01-02T03:04:05Z"},
		{"district": "Latur", "crop": "Rice", "price": 2100.0, "updatedAt": "2025-01-02T03:04:05Z"},
	}

	t.Run("empty district", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		status, raw := get(t, newApp(store), "/api/mandi/Latur")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, want, decodeList(t, raw))
		assert.Zero(t, store.Count(models.MandiPriceCollection))
	})

	t.Run("no store", func(t *testing.T) {
		status, raw := get(t, newApp(nil), "/api/mandi/Latur")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, want, decodeList(t, raw))
	})
}

func TestFertilizer(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{
			name: "wheat on loam",
			body: `{"crop":"Wheat","soil":"Loam"}`,
			want: map[string]any{
				"crop": "Wheat", "soil": "Loam",
				"nutrients":          map[string]any{"N": 120.0, "P": 60.0, "K": 40.0},
				"costEstimate":       372.0,
				"lowCostAlternative": "Use compost + neem cake to replace 20% NPK",
			},
		},
		{
			name: "unknown crop on sand",
			body: `{"crop":"Millet","soil":"sandy"}`,
			want: map[string]any{
				"crop": "Millet", "soil": "sandy",
				"nutrients":          map[string]any{"N": 81.0, "P": 36.0, "K": 36.0},
				"costEstimate":       258.3,
				"lowCostAlternative": "Use compost + neem cake to replace 20% NPK",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := postJSON(t, newApp(nil), "/api/fertilizer", tt.body)
			require.Equal(t, http.StatusOK, status, string(raw))
			assert.Equal(t, tt.want, decodeObject(t, raw))
		})
	}
}

func TestFertilizerRequiresSoil(t *testing.T) {
	status, raw := postJSON(t, newApp(nil), "/api/fertilizer", `{"crop":"Wheat"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "soil is required", errorMessage(t, raw))
}

func TestSendAlert(t *testing.T) {
	store := testutil.NewMemoryStore()
	dispatcher := &recordingDispatcher{}
	app := newApp(store, func(d *handlers.Deps) { d.Dispatcher = dispatcher })

	status, raw := postJSON(t, app, "/api/send-alert", `{"userId":"u1","type":"weather"}`)

	require.Equal(t, http.StatusOK, status, string(raw))
	body := decodeObject(t, raw)
	assert.Equal(t, true, body["sent"])
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	doc, found, err := store.FindByID(context.Background(), models.NotificationCollection, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.DefaultAlertMessage, doc["message"])
	assert.Equal(t, "weather", doc["type"])

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, id, dispatcher.sent[0].ID.Hex())
}

func TestSendAlertKeepsCustomMessageAndType(t *testing.T) {
	store := testutil.NewMemoryStore()
	app := newApp(store)

	status, raw := postJSON(t, app, "/api/send-alert", `{"userId":"u1","type":"pest","message":"Locusts nearby"}`)

	require.Equal(t, http.StatusOK, status)
	id, _ := decodeObject(t, raw)["id"].(string)
	doc, found, err := store.FindByID(context.Background(), models.NotificationCollection, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Locusts nearby", doc["message"])
	assert.Equal(t, "pest", doc["type"])
}

func TestSendAlertSurvivesDispatchFailure(t *testing.T) {
	store := testutil.NewMemoryStore()
	dispatcher := &recordingDispatcher{err: errors.New("sms gateway down")}
	app := newApp(store, func(d *handlers.Deps) { d.Dispatcher = dispatcher })

	status, _ := postJSON(t, app, "/api/send-alert", `{"userId":"u1","type":"mandi"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, store.Count(models.NotificationCollection))
}

func TestSendAlertRequiresType(t *testing.T) {
	store := testutil.NewMemoryStore()

	status, raw := postJSON(t, newApp(store), "/api/send-alert", `{"userId":"u1"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "type is required", errorMessage(t, raw))
	assert.Zero(t, store.Count(models.NotificationCollection))
}
