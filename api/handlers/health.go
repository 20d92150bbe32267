// ABOUTME: Health handler for the Huma API
// ABOUTME: Reports liveness, the fetch fallback order, feature flags and highlight storage stats

package handlers

import (
	"context"
	"net/http"

	"studyflow-api/api/dto/responses"
	"studyflow-api/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
)

// StatsReporter is a store that can describe its contents
type StatsReporter interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
}

// HealthHandler handles health checks
type HealthHandler struct {
	sources []string
	flags   featureflags.Manager
	storage StatsReporter
}

// NewHealthHandler creates a new health handler. storage may be nil.
func NewHealthHandler(sources []string, flags featureflags.Manager, storage StatsReporter) *HealthHandler {
	return &HealthHandler{sources: sources, flags: flags, storage: storage}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput wraps the health response
type HealthOutput struct {
	Body responses.HealthResponse
}

// Health reports service health
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	sources := append([]string{}, h.sources...)

	flags := map[string]bool{}
	if h.flags != nil {
		for flag, enabled := range h.flags.GetAllFlags() {
			flags[string(flag)] = enabled
		}
	}

	body := responses.HealthResponse{
		Status:  "ok",
		Sources: sources,
		Flags:   flags,
	}
	if h.storage != nil {
		stats, err := h.storage.Stats(ctx)
		if err != nil {
			body.Status = "degraded"
			stats = map[string]interface{}{"error": err.Error()}
		}
		body.Storage = stats
	}

	return &HealthOutput{Body: body}, nil
}
