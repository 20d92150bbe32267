// Package api provides the HTTP API layer for the StudyFlow application.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers (readings, sessions, highlights, chat, health)
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Key Features
//
// 1. Automatic OpenAPI Generation
//
// - JSON spec available at /openapi.json
// - Interactive docs at /docs
//
// 2. Request/Response Validation
//
// Huma validates bodies from struct tags:
//
//	type CreateHighlightRequest struct {
//	    Text      string `json:"text" minLength:"1" maxLength:"2000"`
//	    Color     string `json:"color,omitempty" enum:"yellow,green,blue,pink" default:"yellow"`
//	    ReadingID string `json:"readingId" minLength:"1"`
//	}
//
// 3. Middleware Support
//
// - Request logging with unique request IDs
// - Rate limiting per IP address
// - CORS handling
//
// 4. Streaming
//
// Tutor replies are sent as server-sent events: delta events addressed to a
// single assistant message, then the completed message.
//
// # Error Handling
//
// The API uses a consistent error format based on RFC 7807:
//
//	{
//	    "status": 404,
//	    "title": "Not Found",
//	    "detail": "session not found: 5b0c..."
//	}
//
// Domain errors are mapped to HTTP status codes in handlers/errors.go.
package api
