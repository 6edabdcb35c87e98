package repository

import (
	"context"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
)

// AccountIndex is a searchable directory of account summaries. It is a
// derived view; the AccountRepository stays the source of truth.
type AccountIndex interface {
	Index(ctx context.Context, a entity.AccountSummary) error
	Search(ctx context.Context, q string, size int) ([]entity.AccountSummary, error)
}
