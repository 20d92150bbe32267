// ABOUTME: Highlight handler for the Huma API
// ABOUTME: Creates, lists and deletes learner highlights per reading

package handlers

import (
	"context"
	"net/http"
	"time"

	"studyflow-api/api/dto/requests"
	"studyflow-api/api/dto/responses"
	"studyflow-api/core/domain"
	"studyflow-api/core/highlight"
	"studyflow-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
)

// HighlightHandler handles highlight requests
type HighlightHandler struct {
	store interfaces.HighlightStorage
	now   func() time.Time
}

// NewHighlightHandler creates a new highlight handler
func NewHighlightHandler(store interfaces.HighlightStorage) *HighlightHandler {
	return &HighlightHandler{store: store, now: time.Now}
}

// RegisterRoutes registers all highlight routes
func (h *HighlightHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "createHighlight",
		Method:        http.MethodPost,
		Path:          "/highlights",
		Summary:       "Create a highlight",
		Description:   "Stores a learner selection. It is re-applied by literal text match whenever the reading is rendered.",
		Tags:          []string{"Highlights"},
		DefaultStatus: http.StatusCreated,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "listHighlights",
		Method:      http.MethodGet,
		Path:        "/readings/{readingId}/highlights",
		Summary:     "List a reading's highlights",
		Tags:        []string{"Highlights"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteHighlight",
		Method:        http.MethodDelete,
		Path:          "/highlights/{id}",
		Summary:       "Delete a highlight",
		Tags:          []string{"Highlights"},
		DefaultStatus: http.StatusNoContent,
	}, h.Delete)
}

// CreateHighlightInput defines the input for the Create operation
type CreateHighlightInput struct {
	Body requests.CreateHighlightRequest
}

// HighlightOutput wraps one highlight
type HighlightOutput struct {
	Body domain.Highlight
}

// ListHighlightsInput defines the input for the List operation
type ListHighlightsInput struct {
	ReadingID string `path:"readingId" doc:"Reading ID"`
}

// ListHighlightsOutput wraps a highlight listing
type ListHighlightsOutput struct {
	Body responses.HighlightListResponse
}

// DeleteHighlightInput defines the input for the Delete operation
type DeleteHighlightInput struct {
	ID string `path:"id" doc:"Highlight ID"`
}

// Create stores a new highlight
func (h *HighlightHandler) Create(ctx context.Context, input *CreateHighlightInput) (*HighlightOutput, error) {
	body := input.Body
	record, err := highlight.New(body.Text, body.Color, body.WeekID, body.ReadingID, h.now())
	if err != nil {
		return nil, toHumaError(err)
	}

	if err := h.store.Save(ctx, record); err != nil {
		return nil, toHumaError(err)
	}
	return &HighlightOutput{Body: *record}, nil
}

// List returns the highlights of a reading
func (h *HighlightHandler) List(ctx context.Context, input *ListHighlightsInput) (*ListHighlightsOutput, error) {
	highlights, err := h.store.ListByReading(ctx, input.ReadingID)
	if err != nil {
		return nil, toHumaError(err)
	}
	if highlights == nil {
		highlights = []domain.Highlight{}
	}
	return &ListHighlightsOutput{Body: responses.HighlightListResponse{
		ReadingID:  input.ReadingID,
		Highlights: highlights,
	}}, nil
}

// Delete removes a highlight
func (h *HighlightHandler) Delete(ctx context.Context, input *DeleteHighlightInput) (*struct{}, error) {
	if err := h.store.Delete(ctx, input.ID); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}
