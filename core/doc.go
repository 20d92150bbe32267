// Package core contains the business logic for the StudyFlow API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (Highlight, TopicLink, ScrapedDocument, Session, Conversation)
// - highlight: Wraps learner highlights in mark elements
// - topiclinks: Promotes topic links out of the reading body into a link grid
// - sanitize: Boilerplate rule tables and the allow-list HTML sanitizer
// - navigation: Link resolution, link rewriting and the per-reading navigator
// - pipeline: The pure reading pipeline and the service that feeds it
// - scrape: Scrape service, proxy and local extraction clients behind a fallback chain
// - chat: Tutor chat stream decoding and conversations
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, storage)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - All external dependencies are injected via interfaces
// - Content transformations are pure functions with no hidden state
// - Business logic is testable in isolation
//
// # Usage Example
//
//	p := pipeline.New(topiclinks.NewDefaultExtractor())
//	doc := p.Process(domain.ScrapedDocument{
//	    Markdown: "[Chain-of-Thought Prompting](https://x.com/cot) is useful.",
//	}, "https://x.com/guide", highlights)
//
//	// doc.TopicLinks holds the promoted link, doc.HTML the safe body
package core
