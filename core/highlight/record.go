// ABOUTME: Construction and validation of learner highlight records
// ABOUTME: Highlights are immutable once created and owned by one reading

package highlight

import (
	"strings"
	"time"

	"studyflow-api/core/domain"
	"studyflow-api/core/errors"

	"github.com/google/uuid"
)

// MaxTextLength bounds the selected text a learner can highlight
const MaxTextLength = 2000

// New validates a learner selection and returns a highlight record for it.
// An empty color defaults to yellow.
func New(text string, color domain.HighlightColor, weekID, readingID string, now time.Time) (*domain.Highlight, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &errors.ValidationError{Field: "text", Message: "highlight text is required"}
	}
	if len(text) > MaxTextLength {
		return nil, &errors.ValidationError{Field: "text", Message: "highlight text is too long"}
	}
	readingID = strings.TrimSpace(readingID)
	if readingID == "" {
		return nil, &errors.ValidationError{Field: "readingId", Message: "reading is required"}
	}
	if color == "" {
		color = domain.HighlightYellow
	}
	if !color.Valid() {
		return nil, &errors.ValidationError{Field: "color", Message: "must be one of yellow, green, blue, pink"}
	}

	return &domain.Highlight{
		ID:        uuid.New().String(),
		Text:      text,
		Color:     color,
		WeekID:    strings.TrimSpace(weekID),
		ReadingID: readingID,
		CreatedAt: now.UTC(),
	}, nil
}
