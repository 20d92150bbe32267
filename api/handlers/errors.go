// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	stderrors "errors"

	"studyflow-api/core/chat"
	"studyflow-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case errors.IsValidation(err):
		return huma.Error400BadRequest(err.Error())
	case errors.IsConflict(err):
		return huma.Error409Conflict(err.Error())
	case stderrors.Is(err, chat.ErrRateLimited):
		return huma.Error429TooManyRequests(chat.ErrRateLimited.Error())
	case stderrors.Is(err, chat.ErrCreditsExhausted):
		return huma.NewError(402, chat.ErrCreditsExhausted.Error())
	case errors.IsContentUnavailable(err):
		return huma.Error503ServiceUnavailable(err.Error())
	}

	var apiErr *errors.ExternalAPIError
	if stderrors.As(err, &apiErr) {
		// Map external API status codes to our API status codes
		switch {
		case apiErr.StatusCode >= 500:
			return huma.Error503ServiceUnavailable("External service error", err)
		case apiErr.StatusCode == 429:
			return huma.Error429TooManyRequests("Rate limited by external service")
		case apiErr.StatusCode >= 400:
			return huma.Error502BadGateway("External service request error", err)
		default:
			return huma.Error502BadGateway("Unexpected external service response", err)
		}
	}

	// Default to internal server error for unknown errors
	return huma.Error500InternalServerError("Internal server error", err)
}

// statusOf returns the HTTP status toHumaError picks for err
func statusOf(err error) int {
	var se huma.StatusError
	if stderrors.As(toHumaError(err), &se) {
		return se.GetStatus()
	}
	return 500
}
