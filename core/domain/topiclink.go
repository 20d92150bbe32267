// ABOUTME: Domain model for topic links promoted out of reading content
// ABOUTME: Topic links are derived on every render and never persisted

package domain

// TopicLink is an in-content link whose anchor text matched the topic vocabulary
type TopicLink struct {
	Text string `json:"text"`
	Href string `json:"href"`
}
