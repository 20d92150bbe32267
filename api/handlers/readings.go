// ABOUTME: Reading handler for the Huma API
// ABOUTME: Renders one page through the pipeline with the reading's highlights applied

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"studyflow-api/api/dto/requests"
	"studyflow-api/api/dto/responses"
	"studyflow-api/core/domain"
	"studyflow-api/core/interfaces"
	"studyflow-api/core/navigation"
	"studyflow-api/core/pipeline"
	"studyflow-api/core/scrape"

	"github.com/danielgtaylor/huma/v2"
)

// ReadingHandler handles one-shot reading renders
type ReadingHandler struct {
	loader  navigation.DocumentLoader
	logger  interfaces.Logger
	timeout time.Duration
}

// NewReadingHandler creates a new reading handler. timeout bounds each render,
// retries and fallbacks included; zero disables it.
func NewReadingHandler(loader navigation.DocumentLoader, logger interfaces.Logger, timeout time.Duration) *ReadingHandler {
	return &ReadingHandler{loader: loader, logger: logger, timeout: timeout}
}

// RegisterRoutes registers all reading routes
func (h *ReadingHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "renderReading",
		Method:      http.MethodPost,
		Path:        "/readings/render",
		Summary:     "Render a reading",
		Description: "Fetches a page, strips boilerplate, applies highlights, promotes topic links and sanitizes the result. A failed fetch yields an unavailable document pointing at the source.",
		Tags:        []string{"Readings"},
	}, h.Render)
}

// RenderInput defines the input for the Render operation
type RenderInput struct {
	Body requests.RenderReadingRequest
}

// RenderOutput defines the output for the Render operation
type RenderOutput struct {
	Body responses.ReadingResponse
}

// Render handles reading renders
func (h *ReadingHandler) Render(ctx context.Context, input *RenderInput) (*RenderOutput, error) {
	sourceURL, err := sourceURL(input.Body.URL)
	if err != nil {
		return nil, err
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	doc, err := h.loader.Load(ctx, sourceURL, input.Body.ReadingID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, huma.Error504GatewayTimeout("Fetching the reading timed out")
		}
		h.logger.Warn("Rendering unavailable reading", map[string]interface{}{
			"url":   sourceURL,
			"error": err.Error(),
		})
		return &RenderOutput{Body: responses.ReadingResponse{
			ProcessedDocument: pipeline.Unavailable(sourceURL),
			Error:             err.Error(),
		}}, nil
	}

	return &RenderOutput{Body: responses.ReadingResponse{ProcessedDocument: *doc}}, nil
}

// sourceURL normalizes a learner-supplied reading URL
func sourceURL(raw string) (string, error) {
	normalized := scrape.NormalizeURL(raw)
	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", huma.Error400BadRequest("url must be an http(s) URL")
	}
	return normalized, nil
}

// documentText is the plain text of a loaded page, if any
func documentText(doc *domain.ProcessedDocument) string {
	if doc == nil || doc.Status != domain.DocumentReady {
		return ""
	}
	return doc.Text
}
