// ABOUTME: Response DTO for the health endpoint
// ABOUTME: Reports liveness with the configured fetch chain and flags

package responses

// HealthResponse reports liveness and the active fetch sources
type HealthResponse struct {
	Status  string          `json:"status" example:"ok"`
	Sources []string        `json:"sources" doc:"Fetch sources in fallback order"`
	Flags   map[string]bool `json:"flags"`
	Storage map[string]any  `json:"storage,omitempty" doc:"Highlight store statistics"`
}
