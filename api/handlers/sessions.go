// ABOUTME: Navigation session handler for the Huma API
// ABOUTME: Keeps link clicks inside the viewer through a per-reading history stack

package handlers

import (
	"context"
	"net/http"

	"studyflow-api/api/dto/requests"
	"studyflow-api/api/dto/responses"
	"studyflow-api/core/domain"

	"github.com/danielgtaylor/huma/v2"
)

// SessionNavigator is the navigation state machine behind the session routes
type SessionNavigator interface {
	Start(ctx context.Context, sourceURL, readingID string) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Navigate(ctx context.Context, id, href string) (*domain.Session, error)
	GoBack(ctx context.Context, id string) (*domain.Session, bool, error)
}

// SessionHandler handles navigation session requests
type SessionHandler struct {
	navigator SessionNavigator
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(navigator SessionNavigator) *SessionHandler {
	return &SessionHandler{navigator: navigator}
}

// RegisterRoutes registers all session routes
func (h *SessionHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "startSession",
		Method:        http.MethodPost,
		Path:          "/sessions",
		Summary:       "Open a reading",
		Description:   "Starts a navigation session on the reading's source URL and loads it",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, h.Start)

	huma.Register(api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}",
		Summary:     "Get a navigation session",
		Tags:        []string{"Sessions"},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "navigateSession",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/navigate",
		Summary:     "Follow a link",
		Description: "Resolves the link against the current page, pushes it onto the history and loads it. Navigating to the current page retries a failed load.",
		Tags:        []string{"Sessions"},
	}, h.Navigate)

	huma.Register(api, huma.Operation{
		OperationID: "goBackSession",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/back",
		Summary:     "Go back",
		Description: "Pops the history and reloads the previous page. On the first page nothing is popped and leftReading is true.",
		Tags:        []string{"Sessions"},
	}, h.GoBack)
}

// StartSessionInput defines the input for the Start operation
type StartSessionInput struct {
	Body requests.StartSessionRequest
}

// SessionIDInput identifies a session
type SessionIDInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// NavigateInput defines the input for the Navigate operation
type NavigateInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body requests.NavigateRequest
}

// SessionOutput wraps a session response
type SessionOutput struct {
	Body responses.SessionResponse
}

// Start handles session creation
func (h *SessionHandler) Start(ctx context.Context, input *StartSessionInput) (*SessionOutput, error) {
	sourceURL, err := sourceURL(input.Body.URL)
	if err != nil {
		return nil, err
	}

	session, err := h.navigator.Start(ctx, sourceURL, input.Body.ReadingID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: responses.NewSessionResponse(session, false)}, nil
}

// Get returns a session
func (h *SessionHandler) Get(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	session, err := h.navigator.Get(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: responses.NewSessionResponse(session, false)}, nil
}

// Navigate follows a link inside the session
func (h *SessionHandler) Navigate(ctx context.Context, input *NavigateInput) (*SessionOutput, error) {
	session, err := h.navigator.Navigate(ctx, input.ID, input.Body.Href)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: responses.NewSessionResponse(session, false)}, nil
}

// GoBack pops the session history
func (h *SessionHandler) GoBack(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	session, leftReading, err := h.navigator.GoBack(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SessionOutput{Body: responses.NewSessionResponse(session, leftReading)}, nil
}
