// ABOUTME: Fetcher chain trying each content source in turn
// ABOUTME: The first source returning non-empty content wins

package scrape

import (
	"context"
	stderrors "errors"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"
)

// Source is a named content fetcher in a chain
type Source struct {
	Name    string
	Fetcher interfaces.ContentFetcher
}

// Chain fetches from its sources in order
type Chain struct {
	sources []Source
	logger  interfaces.Logger
}

// NewChain creates a fetcher chain; sources with a nil fetcher are skipped
func NewChain(logger interfaces.Logger, sources ...Source) *Chain {
	kept := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Fetcher != nil {
			kept = append(kept, s)
		}
	}
	return &Chain{sources: kept, logger: logger}
}

// Fetch returns the first non-empty document. When every source fails the
// errors of all of them are joined.
func (c *Chain) Fetch(ctx context.Context, url string) (*domain.ScrapedDocument, error) {
	var errs []error
	for _, s := range c.sources {
		doc, err := s.Fetcher.Fetch(ctx, url)
		if err == nil && doc != nil && !doc.Empty() {
			return doc, nil
		}
		if err == nil {
			err = &errors.ContentUnavailableError{URL: url, Reason: s.Name + " returned no content"}
		}
		errs = append(errs, errors.WrapError(err, s.Name))

		if ctx.Err() != nil {
			break
		}
		c.logger.Warn("Content source failed, trying next", map[string]interface{}{
			"source": s.Name,
			"url":    url,
			"error":  err.Error(),
		})
	}

	if len(errs) == 0 {
		return nil, &errors.ContentUnavailableError{URL: url, Reason: "no content sources configured"}
	}
	return nil, stderrors.Join(errs...)
}
