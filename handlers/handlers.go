package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/smartkrishi/smart-krishi-api/apperror"
	"github.com/smartkrishi/smart-krishi-api/database"
	"github.com/smartkrishi/smart-krishi-api/providers"
	"github.com/smartkrishi/smart-krishi-api/weather"
)

// Store call budgets.
const (
	writeTimeout = 5 * time.Second
	readTimeout  = 10 * time.Second
)

type Handler struct {
	store      database.Repository
	weather    weather.Provider
	classifier providers.Classifier
	dispatcher providers.Dispatcher
	log        *logrus.Logger
	now        func() time.Time

	// Reported by the diagnostic endpoint.
	databaseURLSet  bool
	databaseNameSet bool
}

type Deps struct {
	Weather    weather.Provider
	Classifier providers.Classifier
	Dispatcher providers.Dispatcher
	Logger     *logrus.Logger
	// Clock defaults to time.Now in UTC.
	Clock func() time.Time

	DatabaseURLSet  bool
	DatabaseNameSet bool
}

// NewHandler wires the handlers to store. store may be nil when no database is
// configured; routes that need it then fail with a server error.
func NewHandler(store database.Repository, deps Deps) *Handler {
	h := &Handler{
		store:           store,
		weather:         deps.Weather,
		classifier:      deps.Classifier,
		dispatcher:      deps.Dispatcher,
		log:             deps.Logger,
		now:             deps.Clock,
		databaseURLSet:  deps.DatabaseURLSet,
		databaseNameSet: deps.DatabaseNameSet,
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	if h.now == nil {
		h.now = func() time.Time { return time.Now().UTC() }
	}
	if h.weather == nil {
		h.weather = weather.NewMock()
	}
	if h.classifier == nil {
		h.classifier = providers.NewStubClassifier()
	}
	if h.dispatcher == nil {
		h.dispatcher = providers.NewLogDispatcher(h.log)
	}
	return h
}

func (h *Handler) requireStore() error {
	if h.store == nil {
		return apperror.Internal("Database not available", nil)
	}
	return nil
}

// parseJSON decodes the request body into v, rejecting unknown fields and
// anything after the first JSON value.
func parseJSON(c *fiber.Ctx, v any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperror.BadRequest("Cannot parse JSON", err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return apperror.BadRequest("Cannot parse JSON", errTrailingData)
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON body")
