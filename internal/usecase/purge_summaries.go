package usecase

import (
	"context"
	"log/slog"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/metrics"
)

// PurgeConfirmationPhrase must be supplied verbatim to delete all summaries.
const PurgeConfirmationPhrase = "DELETE ALL SUMMARIES"

// PurgeSummaries removes every stored summary.
type PurgeSummaries struct {
	summaries domain.SummaryRepository
	logger    *slog.Logger
}

// NewPurgeSummaries creates a new PurgeSummaries usecase.
func NewPurgeSummaries(r domain.SummaryRepository, l *slog.Logger) *PurgeSummaries {
	return &PurgeSummaries{summaries: r, logger: l}
}

// Execute deletes all summaries if confirmation matches the phrase exactly.
func (uc *PurgeSummaries) Execute(ctx context.Context, confirmation string) (int64, error) {
	if confirmation != PurgeConfirmationPhrase {
		return 0, domain.ErrConfirmationRequired
	}

	n, err := uc.summaries.DeleteAllSummaries(ctx)
	if err != nil {
		uc.logger.ErrorContext(ctx, "bulk summary delete failed", "error", err)
		return 0, err
	}

	metrics.SummariesPurged.Add(float64(n))
	uc.logger.WarnContext(ctx, "all summaries deleted", "deleted", n)
	return n, nil
}
