// ABOUTME: Reading service that fetches a page and runs it through the pipeline
// ABOUTME: Applies the stored highlights of the reading being viewed

package pipeline

import (
	"context"
	"time"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"
)

// Service loads processed reading documents
type Service struct {
	fetcher    interfaces.ContentFetcher
	highlights interfaces.HighlightStorage
	pipeline   *Pipeline
	logger     interfaces.Logger
}

// NewService creates a reading service. highlights may be nil.
func NewService(fetcher interfaces.ContentFetcher, highlights interfaces.HighlightStorage, pipeline *Pipeline, logger interfaces.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		highlights: highlights,
		pipeline:   pipeline,
		logger:     logger,
	}
}

// Load fetches url and processes it with the highlights of readingID
func (s *Service) Load(ctx context.Context, url, readingID string) (*domain.ProcessedDocument, error) {
	start := time.Now()

	raw, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("Failed to fetch reading", map[string]interface{}{
			"url":      url,
			"duration": time.Since(start).String(),
			"error":    err.Error(),
		})
		return nil, errors.WrapError(err, "failed to fetch content")
	}

	doc := s.pipeline.Process(*raw, url, s.readingHighlights(ctx, readingID))

	s.logger.Debug("Processed reading", map[string]interface{}{
		"url":         url,
		"reading_id":  readingID,
		"status":      string(doc.Status),
		"topic_links": len(doc.TopicLinks),
		"duration":    time.Since(start).String(),
	})
	return &doc, nil
}

// readingHighlights never fails the load; a broken store renders without marks
func (s *Service) readingHighlights(ctx context.Context, readingID string) []domain.Highlight {
	if s.highlights == nil || readingID == "" {
		return nil
	}

	highlights, err := s.highlights.ListByReading(ctx, readingID)
	if err != nil {
		s.logger.Warn("Failed to load highlights", map[string]interface{}{
			"reading_id": readingID,
			"error":      err.Error(),
		})
		return nil
	}
	return highlights
}
