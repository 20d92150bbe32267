// ABOUTME: SQLite-backed highlight store so learner highlights survive restarts
// ABOUTME: All queries are fixed and parameterized

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studyflow-api/core/domain"
	coreerrors "studyflow-api/core/errors"

	_ "github.com/mattn/go-sqlite3"
)

// HighlightStore implements HighlightStorage using SQLite
type HighlightStore struct {
	db       *sql.DB
	filePath string
}

// NewHighlightStore opens (or creates) the highlight database at filePath.
// ":memory:" gives a private in-memory database.
func NewHighlightStore(filePath string) (*HighlightStore, error) {
	if filePath == "" {
		filePath = "highlights.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	store := &HighlightStore{db: db, filePath: filePath}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *HighlightStore) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS highlights (
			id TEXT PRIMARY KEY,
			reading_id TEXT NOT NULL,
			week_id TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			color TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_highlights_reading ON highlights(reading_id, created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// Save inserts or replaces a highlight
func (s *HighlightStore) Save(ctx context.Context, h *domain.Highlight) error {
	if h.ID == "" {
		return errors.New("highlight id cannot be empty")
	}

	query := `
		INSERT OR REPLACE INTO highlights (id, reading_id, week_id, text, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, h.ID, h.ReadingID, h.WeekID, h.Text, string(h.Color), h.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save highlight: %w", err)
	}
	return nil
}

// ListByReading returns a reading's highlights, oldest first
func (s *HighlightStore) ListByReading(ctx context.Context, readingID string) ([]domain.Highlight, error) {
	query := `
		SELECT id, reading_id, week_id, text, color, created_at
		FROM highlights WHERE reading_id = ? ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, readingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list highlights: %w", err)
	}
	defer rows.Close()

	highlights := []domain.Highlight{}
	for rows.Next() {
		var h domain.Highlight
		var color string
		var created int64
		if err := rows.Scan(&h.ID, &h.ReadingID, &h.WeekID, &h.Text, &color, &created); err != nil {
			return nil, fmt.Errorf("failed to scan highlight: %w", err)
		}
		h.Color = domain.HighlightColor(color)
		h.CreatedAt = time.Unix(0, created).UTC()
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// Delete removes a highlight; unknown IDs yield a NotFoundError
func (s *HighlightStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM highlights WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete highlight: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &coreerrors.NotFoundError{Resource: "highlight", ID: id}
	}
	return nil
}

// Stats returns store statistics
func (s *HighlightStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM highlights").Scan(&count); err != nil {
		return nil, err
	}
	stats["total_highlights"] = count

	var readings int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT reading_id) FROM highlights").Scan(&readings); err != nil {
		return nil, err
	}
	stats["readings"] = readings
	stats["file_path"] = s.filePath
	return stats, nil
}

// Close closes the database connection
func (s *HighlightStore) Close() error {
	return s.db.Close()
}
