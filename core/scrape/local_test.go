package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyflow-api/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Self-Consistency Decoding</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Self-Consistency Decoding</h1>
<p>Self-consistency samples several reasoning paths and keeps the most consistent answer. It improves chain-of-thought prompting on arithmetic and commonsense benchmarks.</p>
<p>The method replaces greedy decoding with sampling followed by a majority vote over final answers, which makes it robust to individual reasoning mistakes.</p>
<p>In practice a handful of sampled paths is enough to recover most of the accuracy gain, and the vote can be weighted by the probability of each path when the model exposes token log probabilities.</p>
<p>Because it needs no additional training it can be applied on top of any pretrained language model that supports sampling.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestLocalExtractor_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer server.Close()

	extractor := NewLocalExtractor(nopLogger{}, 5*time.Second)
	doc, err := extractor.Fetch(context.Background(), server.URL+"/article")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc.HTML, `<article class="readable-article">`))
	assert.Contains(t, doc.HTML, "majority vote")
	assert.Contains(t, doc.Markdown, "majority vote")
	assert.NotEmpty(t, doc.Metadata.Title)
	assert.Equal(t, server.URL+"/article", doc.Metadata.SourceURL)
}

func TestLocalExtractor_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	extractor := NewLocalExtractor(nopLogger{}, 5*time.Second)
	_, err := extractor.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.IsExternalAPI(err))
}

func TestLocalExtractor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	extractor := NewLocalExtractor(nopLogger{}, time.Second)
	_, err := extractor.Fetch(ctx, "https://example.com")
	assert.ErrorIs(t, err, context.Canceled)
}
