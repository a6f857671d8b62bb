package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/metrics"

	"github.com/google/uuid"
)

// SummaryList is a validated batch of summaries for one patient.
type SummaryList struct {
	Records     []domain.SummaryRecord
	Quarantined int
}

// ListSummaries fetches a patient's summaries for an assigned therapist and
// converts stored rows into typed records.
type ListSummaries struct {
	patients  domain.PatientRepository
	summaries domain.SummaryRepository
	sanitizer domain.TextSanitizer
	logger    *slog.Logger
}

// NewListSummaries creates a new ListSummaries usecase.
func NewListSummaries(p domain.PatientRepository, s domain.SummaryRepository, san domain.TextSanitizer, l *slog.Logger) *ListSummaries {
	return &ListSummaries{patients: p, summaries: s, sanitizer: san, logger: l}
}

// Execute returns the summaries of patientID inside dr, newest first.
// Rows that fail validation are dropped and counted, never returned.
func (uc *ListSummaries) Execute(ctx context.Context, therapistID, patientID string, dr domain.DateRange) (*SummaryList, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id must be a UUID", domain.ErrInvalidArgument)
	}

	assigned, err := uc.patients.IsAssigned(ctx, therapistID, patientID)
	if err != nil {
		uc.logger.ErrorContext(ctx, "assignment check failed", "error", err)
		return nil, err
	}
	if !assigned {
		uc.logger.WarnContext(ctx, "summary access for unassigned patient refused")
		return nil, domain.ErrPatientNotAssigned
	}

	rows, err := uc.summaries.ListSummaries(ctx, patientID, dr)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to fetch summaries", "error", err)
		return nil, err
	}

	out := &SummaryList{Records: make([]domain.SummaryRecord, 0, len(rows))}
	for _, row := range rows {
		rec, err := domain.DecodeSummary(row, uc.sanitizer)
		if err != nil {
			out.Quarantined++
			metrics.QuarantinedSummaries.Inc()
			uc.logger.WarnContext(ctx, "quarantined malformed summary", "summary_id", row.ID, "error", err)
			continue
		}
		if rec.PatientID != "" && rec.PatientID != patientID {
			out.Quarantined++
			metrics.QuarantinedSummaries.Inc()
			uc.logger.WarnContext(ctx, "quarantined summary for another patient", "summary_id", row.ID)
			continue
		}
		out.Records = append(out.Records, rec)
	}

	sort.SliceStable(out.Records, func(i, j int) bool {
		return out.Records[i].CreatedAt.After(out.Records[j].CreatedAt)
	})
	return out, nil
}
