package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/traits"
)

// newHistoryEntry synthesizes a history record from the password's traits.
// The password itself is inspected and dropped.
func newHistoryEntry(password string, rating model.Rating, feedback []string, kind model.EntryType, now time.Time) model.HistoryEntry {
	t := traits.Of(password)
	return model.HistoryEntry{
		ID:           uuid.NewString(),
		Timestamp:    now.UTC().Format(model.TimestampLayout),
		Rating:       rating,
		Length:       t.Length,
		HasUppercase: t.HasUppercase,
		HasLowercase: t.HasLowercase,
		HasNumbers:   t.HasNumbers,
		HasSymbols:   t.HasSymbols,
		IsCommon:     traits.IsCommonFromFeedback(feedback),
		Type:         kind,
		Generated:    kind == model.EntryGenerated,
	}
}
