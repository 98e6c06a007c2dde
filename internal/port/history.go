package port

import (
	"context"

	"github.com/bnema/recode/internal/domain"
)

// HistoryStore records finished runs. It is best-effort bookkeeping:
// callers log and continue when recording fails, and nothing is read
// back during a run.
type HistoryStore interface {
	RecordRun(ctx context.Context, sum domain.RunSummary, results []domain.JobResult) error
	RecentRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Close() error
}
