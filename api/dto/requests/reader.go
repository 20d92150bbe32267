// ABOUTME: Request DTOs for reading and navigation session endpoints
// ABOUTME: Defines the structure for render, session start and navigate requests

package requests

// RenderReadingRequest asks for one page run through the reading pipeline
type RenderReadingRequest struct {
	URL       string `json:"url" minLength:"1" example:"https://www.promptingguide.ai/techniques/cot" doc:"Source URL of the reading"`
	ReadingID string `json:"readingId,omitempty" doc:"Reading whose stored highlights are applied"`
}

// StartSessionRequest opens a navigation session on a reading's source URL
type StartSessionRequest struct {
	URL       string `json:"url" minLength:"1" example:"https://www.promptingguide.ai/techniques/cot" doc:"Source URL of the reading, the root of the history stack"`
	ReadingID string `json:"readingId,omitempty" doc:"Reading whose stored highlights are applied on every page"`
}

// NavigateRequest follows a link clicked inside the rendered document
type NavigateRequest struct {
	Href string `json:"href" minLength:"1" example:"/techniques/fewshot" doc:"Link target, absolute or relative to the current page"`
}
