package port

import (
	"context"

	"gradeledger/internal/domain"
)

// DocumentParser turns a raw result document into records. Content problems are
// reported through ParseResult.RequiresManualEntry; only unreadable input is an error.
type DocumentParser interface {
	Parse(ctx context.Context, doc domain.RawDocument) (*domain.ParseResult, error)
}
