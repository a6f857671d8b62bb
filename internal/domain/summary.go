package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Display fallbacks for empty summary sections.
const (
	EmptyLabelsText   = "None identified."
	EmptyFollowUpText = "No specific follow-up suggested."
)

// SummaryPayload is the structured content of an AI-generated summary.
type SummaryPayload struct {
	MoodCues          []string `json:"moodCues"`
	PossibleStressors []string `json:"possibleStressors"`
	SuggestedFollowUp string   `json:"suggestedFollowUp"`
}

// SummaryRecord is one validated, timestamped summary for a patient.
type SummaryRecord struct {
	ID        string
	PatientID string
	CreatedAt time.Time
	Payload   SummaryPayload
}

// RawSummary is a summary row as it comes out of the record store, before
// its payload has been checked.
type RawSummary struct {
	ID          string
	PatientID   string
	CreatedAt   time.Time
	SummaryData []byte
}

// TextSanitizer strips markup from untrusted text.
type TextSanitizer interface {
	Sanitize(s string) string
}

// DecodeSummary validates a stored row and converts it into a SummaryRecord.
// Rows that cannot be trusted wrap ErrMalformedSummary.
func DecodeSummary(raw RawSummary, sanitizer TextSanitizer) (SummaryRecord, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return SummaryRecord{}, fmt.Errorf("%w: empty id", ErrMalformedSummary)
	}
	if raw.CreatedAt.IsZero() {
		return SummaryRecord{}, fmt.Errorf("%w: %s has no timestamp", ErrMalformedSummary, raw.ID)
	}

	var payload SummaryPayload
	if len(raw.SummaryData) > 0 {
		if err := json.Unmarshal(raw.SummaryData, &payload); err != nil {
			return SummaryRecord{}, fmt.Errorf("%w: %s: %v", ErrMalformedSummary, raw.ID, err)
		}
	}

	payload.MoodCues = cleanLabels(payload.MoodCues, sanitizer)
	payload.PossibleStressors = cleanLabels(payload.PossibleStressors, sanitizer)
	payload.SuggestedFollowUp = strings.TrimSpace(sanitize(payload.SuggestedFollowUp, sanitizer))

	return SummaryRecord{
		ID:        raw.ID,
		PatientID: raw.PatientID,
		CreatedAt: raw.CreatedAt,
		Payload:   payload,
	}, nil
}

func cleanLabels(labels []string, sanitizer TextSanitizer) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(sanitize(l, sanitizer))
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func sanitize(s string, sanitizer TextSanitizer) string {
	if sanitizer == nil {
		return s
	}
	return sanitizer.Sanitize(s)
}

// DateRange is an inclusive filter on summary creation time. Nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

const dateOnlyLayout = "2006-01-02"

// ParseDateRange parses optional start and end bounds given either as
// YYYY-MM-DD or RFC3339. Date-only bounds are interpreted in UTC: a start
// date begins at 00:00:00.000Z and an end date closes at 23:59:59.999Z.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange

	if s := strings.TrimSpace(start); s != "" {
		t, _, err := parseBound(s)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidDateRange, err)
		}
		r.Start = &t
	}

	if e := strings.TrimSpace(end); e != "" {
		t, dateOnly, err := parseBound(e)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidDateRange, err)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		r.End = &t
	}

	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return DateRange{}, fmt.Errorf("%w: start is after end", ErrInvalidDateRange)
	}
	return r, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}
