package api

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/alx-travel/alx-travel-app/internal/config"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const readinessTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler serves the service endpoints built on the resolved settings.
type Handler struct {
	stage     config.Stage
	framework config.Framework
	readiness Pinger
	logger    *zap.Logger

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithHandlerLogger sets the logger used for dependency failures.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithReadiness sets the dependency checked by the readiness endpoint.
func WithReadiness(p Pinger) HandlerOption {
	return func(h *Handler) {
		h.readiness = p
	}
}

// NewHandler constructs a Handler for the given settings.
func NewHandler(settings config.Settings, opts ...HandlerOption) *Handler {
	h := &Handler{
		stage:     settings.Stage,
		framework: settings.Framework,
		logger:    zap.NewNop(),
	}
	loc := handlerLocation(settings.Framework.I18N)
	h.clock = func() time.Time {
		return time.Now().In(loc)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Stage:     h.stage.String(),
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.readiness == nil {
		writeError(w, http.StatusServiceUnavailable, "Not ready", "database not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.readiness.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed",
			zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeError(w, http.StatusServiceUnavailable, "Not ready", "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready", Stage: h.stage.String(), Timestamp: h.clock()})
}

func (h *Handler) handleSwagger(w http.ResponseWriter, _ *http.Request) {
	doc := swaggerDocument{
		Swagger:             "2.0",
		Info:                swaggerInfo{Title: "ALX Travel App API", Version: "v1"},
		BasePath:            "/api",
		Consumes:            []string{"application/json"},
		Produces:            []string{"application/json"},
		SecurityDefinitions: h.framework.APIDocs.SecurityDefinitions,
		Paths:               map[string]any{},
	}
	for _, name := range slices.Sorted(maps.Keys(doc.SecurityDefinitions)) {
		doc.Security = append(doc.Security, map[string][]string{name: {}})
	}
	writeJSON(w, http.StatusOK, doc)
}

// handlerLocation is the configured time zone for response timestamps.
// Unknown zones and UseTZ=false fall back to UTC.
func handlerLocation(i18n config.I18N) *time.Location {
	if !i18n.UseTZ || i18n.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(i18n.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type swaggerInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type swaggerDocument struct {
	Swagger             string                               `json:"swagger"`
	Info                swaggerInfo                          `json:"info"`
	BasePath            string                               `json:"basePath"`
	Consumes            []string                             `json:"consumes"`
	Produces            []string                             `json:"produces"`
	SecurityDefinitions map[string]config.SecurityDefinition `json:"securityDefinitions"`
	Security            []map[string][]string                `json:"security,omitempty"`
	Paths               map[string]any                       `json:"paths"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}
