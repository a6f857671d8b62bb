package usecase

import (
	"context"
	"time"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/metrics"
)

// GroupedSummaries is a patient's summaries arranged into days and sessions.
type GroupedSummaries struct {
	Grouping    *domain.Grouping
	Total       int
	Quarantined int
}

// GroupSummaries fetches summaries and partitions them into sessions.
type GroupSummaries struct {
	list *ListSummaries
}

// NewGroupSummaries creates a new GroupSummaries usecase.
func NewGroupSummaries(list *ListSummaries) *GroupSummaries {
	return &GroupSummaries{list: list}
}

// Execute groups the summaries of patientID inside dr by day in loc and by
// gapMinutes within each day. An invalid gap fails before any fetch.
func (uc *GroupSummaries) Execute(ctx context.Context, therapistID, patientID string, dr domain.DateRange, gapMinutes float64, loc *time.Location) (*GroupedSummaries, error) {
	if err := domain.ValidateGap(gapMinutes); err != nil {
		return nil, err
	}

	list, err := uc.list.Execute(ctx, therapistID, patientID, dr)
	if err != nil {
		return nil, err
	}

	grouping, err := domain.GroupSessions(list.Records, gapMinutes, loc)
	if err != nil {
		return nil, err
	}

	sessions := 0
	for _, d := range grouping.Days() {
		sessions += len(d.Sessions)
	}
	metrics.RecordGrouping(grouping.Len(), sessions)

	return &GroupedSummaries{
		Grouping:    grouping,
		Total:       len(list.Records),
		Quarantined: list.Quarantined,
	}, nil
}
