package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"aegis-dashboard/internal/domain"
)

// SummaryRepository reads and purges the summaries table.
// Implements domain.SummaryRepository.
type SummaryRepository struct {
	db PgxIface
}

// NewSummaryRepository creates a SummaryRepository.
func NewSummaryRepository(db PgxIface) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// ListSummaries returns the raw summaries of patientID whose created_at is
// inside the inclusive range, newest first.
func (r *SummaryRepository) ListSummaries(ctx context.Context, patientID string, dr domain.DateRange) ([]domain.RawSummary, error) {
	query, args := buildSummaryQuery(patientID, dr)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list summaries: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := make([]domain.RawSummary, 0)
	for rows.Next() {
		var s domain.RawSummary
		if err := rows.Scan(&s.ID, &s.PatientID, &s.CreatedAt, &s.SummaryData); err != nil {
			return nil, fmt.Errorf("%w: scan summary: %v", domain.ErrStoreUnavailable, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate summaries: %v", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}

func buildSummaryQuery(patientID string, dr domain.DateRange) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT id, teen_id, created_at, summary_data FROM summaries WHERE teen_id = $1`)
	args := []any{patientID}

	if dr.Start != nil {
		args = append(args, *dr.Start)
		b.WriteString(` AND created_at >= $` + strconv.Itoa(len(args)))
	}
	if dr.End != nil {
		args = append(args, *dr.End)
		b.WriteString(` AND created_at <= $` + strconv.Itoa(len(args)))
	}
	b.WriteString(` ORDER BY created_at DESC`)
	return b.String(), args
}

// DeleteAllSummaries removes every summary and returns how many were deleted.
func (r *SummaryRepository) DeleteAllSummaries(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM summaries`)
	if err != nil {
		return 0, fmt.Errorf("%w: delete summaries: %v", domain.ErrStoreUnavailable, err)
	}
	return tag.RowsAffected(), nil
}
