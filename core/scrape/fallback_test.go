package scrape

import (
	"context"
	stderrors "errors"
	"testing"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetcherFunc func(ctx context.Context, url string) (*domain.ScrapedDocument, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (*domain.ScrapedDocument, error) {
	return f(ctx, url)
}

func failing(msg string) fetcherFunc {
	return func(context.Context, string) (*domain.ScrapedDocument, error) {
		return nil, stderrors.New(msg)
	}
}

func returning(markdown string) fetcherFunc {
	return func(context.Context, string) (*domain.ScrapedDocument, error) {
		return &domain.ScrapedDocument{Markdown: markdown}, nil
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	chain := NewChain(nopLogger{},
		Source{Name: "scrape", Fetcher: failing("scrape down")},
		Source{Name: "proxy", Fetcher: returning("from proxy")},
		Source{Name: "local", Fetcher: returning("from local")},
	)

	doc, err := chain.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "from proxy", doc.Markdown)
}

func TestChain_EmptyDocumentFallsThrough(t *testing.T) {
	chain := NewChain(nopLogger{},
		Source{Name: "scrape", Fetcher: returning("  ")},
		Source{Name: "local", Fetcher: returning("real")},
	)

	doc, err := chain.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "real", doc.Markdown)
}

func TestChain_AllFailJoinsErrors(t *testing.T) {
	chain := NewChain(nopLogger{},
		Source{Name: "scrape", Fetcher: failing("scrape down")},
		Source{Name: "proxy", Fetcher: returning("")},
	)

	_, err := chain.Fetch(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scrape: scrape down")
	assert.Contains(t, err.Error(), "proxy returned no content")
	assert.True(t, errors.IsContentUnavailable(err))
}

func TestChain_SkipsNilFetchers(t *testing.T) {
	chain := NewChain(nopLogger{}, Source{Name: "proxy"})

	_, err := chain.Fetch(context.Background(), "https://example.com")
	assert.True(t, errors.IsContentUnavailable(err))
}
