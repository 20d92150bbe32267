// ABOUTME: Navigator keeps a learner inside the reading viewer across link clicks
// ABOUTME: Manages the history stack, the per-URL load state and stale-result discard

package navigation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"

	"github.com/google/uuid"
)

// DocumentLoader fetches a URL and runs it through the reading pipeline
type DocumentLoader interface {
	Load(ctx context.Context, url, readingID string) (*domain.ProcessedDocument, error)
}

// Navigator drives navigation sessions
type Navigator struct {
	loader  DocumentLoader
	store   interfaces.SessionStorage
	logger  interfaces.Logger
	timeout time.Duration

	// guards read-modify-write of sessions; loads run outside it
	mu  sync.Mutex
	now func() time.Time
}

// NewNavigator creates a navigator. timeout bounds every page load; zero disables it.
func NewNavigator(loader DocumentLoader, store interfaces.SessionStorage, logger interfaces.Logger, timeout time.Duration) *Navigator {
	return &Navigator{
		loader:  loader,
		store:   store,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Start opens a session on the reading's source URL and loads it
func (n *Navigator) Start(ctx context.Context, sourceURL, readingID string) (*domain.Session, error) {
	if !Navigable(sourceURL) {
		return nil, &errors.ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}

	session := &domain.Session{
		ID:        uuid.New().String(),
		ReadingID: readingID,
		Navigation: domain.NavigationState{
			CurrentURL: sourceURL,
			History:    []string{sourceURL},
		},
		State: domain.StateIdle,
	}

	n.mu.Lock()
	gen, err := n.beginLoad(ctx, session)
	n.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return n.load(ctx, session.ID, sourceURL, readingID, gen)
}

// Get returns a session by ID
func (n *Navigator) Get(ctx context.Context, id string) (*domain.Session, error) {
	return n.store.Get(ctx, id)
}

// Navigate pushes href, resolved against the current page, and loads it.
// Navigating to the current URL is how a failed load is retried.
func (n *Navigator) Navigate(ctx context.Context, id, href string) (*domain.Session, error) {
	if IsFragment(href) {
		return nil, &errors.ValidationError{Field: "href", Message: "fragment links stay on the current page"}
	}

	n.mu.Lock()
	session, err := n.store.Get(ctx, id)
	if err != nil {
		n.mu.Unlock()
		return nil, err
	}

	target := Resolve(href, session.Navigation.CurrentURL)
	if !Navigable(target) {
		n.mu.Unlock()
		return nil, &errors.ValidationError{Field: "href", Message: fmt.Sprintf("cannot navigate to %q", href)}
	}

	nav := &session.Navigation
	if target != nav.CurrentURL {
		nav.History = append(nav.History, target)
		nav.CurrentURL = target
	}

	gen, err := n.beginLoad(ctx, session)
	n.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return n.load(ctx, id, target, session.ReadingID, gen)
}

// GoBack pops the history stack and reloads the previous page. At the root
// entry nothing is popped and leftReading is true: the caller should leave the
// reading entirely.
func (n *Navigator) GoBack(ctx context.Context, id string) (session *domain.Session, leftReading bool, err error) {
	n.mu.Lock()
	session, err = n.store.Get(ctx, id)
	if err != nil {
		n.mu.Unlock()
		return nil, false, err
	}

	nav := &session.Navigation
	if len(nav.History) <= 1 {
		n.mu.Unlock()
		return session, true, nil
	}

	nav.History = nav.History[:len(nav.History)-1]
	nav.CurrentURL = nav.History[len(nav.History)-1]
	target := nav.CurrentURL

	gen, err := n.beginLoad(ctx, session)
	n.mu.Unlock()
	if err != nil {
		return nil, false, err
	}

	session, err = n.load(ctx, id, target, session.ReadingID, gen)
	return session, false, err
}

// beginLoad moves the session to Loading under a fresh generation. Caller holds mu.
func (n *Navigator) beginLoad(ctx context.Context, session *domain.Session) (int, error) {
	session.Generation++
	session.State = domain.StateLoading
	session.Document = nil
	session.Error = ""
	session.UpdatedAt = n.now()

	if err := n.store.Save(ctx, session); err != nil {
		return 0, errors.WrapError(err, "failed to save session")
	}
	return session.Generation, nil
}

// load fetches the page and commits the result unless a newer navigation
// started meanwhile, in which case the result is discarded.
func (n *Navigator) load(ctx context.Context, id, url, readingID string, gen int) (*domain.Session, error) {
	loadCtx := ctx
	if n.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	start := time.Now()
	doc, loadErr := n.loader.Load(loadCtx, url, readingID)
	duration := time.Since(start)

	// the outcome is committed even if the caller has gone away, so the
	// session never stays in loading
	commitCtx := context.WithoutCancel(ctx)

	n.mu.Lock()
	defer n.mu.Unlock()

	// re-read: another navigation may have committed while we were loading
	session, err := n.store.Get(commitCtx, id)
	if err != nil {
		return nil, err
	}

	if session.Generation != gen {
		n.logger.Debug("Discarding stale page load", map[string]interface{}{
			"session_id": id,
			"url":        url,
			"generation": gen,
			"current":    session.Generation,
		})
		return session, nil
	}

	switch {
	case loadErr != nil:
		session.State = domain.StateError
		session.Error = loadErr.Error()
		session.Document = &domain.ProcessedDocument{
			Status:     domain.DocumentUnavailable,
			SourceURL:  url,
			TopicLinks: []domain.TopicLink{},
		}
		n.logger.Warn("Page load failed", map[string]interface{}{
			"session_id": id,
			"url":        url,
			"duration":   duration.String(),
			"error":      loadErr.Error(),
		})
	case doc == nil || doc.Status == domain.DocumentUnavailable:
		if doc == nil {
			doc = &domain.ProcessedDocument{Status: domain.DocumentUnavailable, SourceURL: url, TopicLinks: []domain.TopicLink{}}
		}
		session.State = domain.StateError
		session.Error = (&errors.ContentUnavailableError{URL: url, Reason: "no content returned"}).Error()
		session.Document = doc
	default:
		session.State = domain.StateLoaded
		session.Document = doc
		n.logger.Info("Page loaded", map[string]interface{}{
			"session_id":  id,
			"url":         url,
			"duration":    duration.String(),
			"topic_links": len(doc.TopicLinks),
		})
	}

	session.UpdatedAt = n.now()
	if err := n.store.Save(commitCtx, session); err != nil {
		return nil, errors.WrapError(err, "failed to save session")
	}
	return session, nil
}
