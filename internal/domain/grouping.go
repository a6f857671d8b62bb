package domain

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"
)

// DefaultSessionGapMinutes is the gap that splits two consecutive summaries
// into separate sessions when no other value is configured.
const DefaultSessionGapMinutes = 30

// DayKey identifies a calendar date in the display location.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayKeyOf returns the calendar date of t in loc.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	y, m, d := t.In(loc).Date()
	return DayKey{Year: y, Month: m, Day: d}
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// Before reports whether k is an earlier date than o.
func (k DayKey) Before(o DayKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Day < o.Day
}

// Session is a non-empty run of summaries whose consecutive members are no
// more than the gap threshold apart. Records are ascending by CreatedAt.
type Session struct {
	Records []SummaryRecord
}

// Start returns the creation time of the first record.
func (s Session) Start() time.Time { return s.Records[0].CreatedAt }

// End returns the creation time of the last record.
func (s Session) End() time.Time { return s.Records[len(s.Records)-1].CreatedAt }

// DayGroup holds the sessions of one calendar date, ascending by start time.
type DayGroup struct {
	Key      DayKey
	Sessions []Session
}

// RecordCount returns the number of records across all sessions of the day.
func (g DayGroup) RecordCount() int {
	n := 0
	for _, s := range g.Sessions {
		n += len(s.Records)
	}
	return n
}

// Grouping is an ordered mapping from DayKey to DayGroup.
type Grouping struct {
	days  []DayGroup
	index map[DayKey]int
}

// Len returns the number of day groups.
func (g *Grouping) Len() int { return len(g.days) }

// Days returns the day groups ascending by date.
func (g *Grouping) Days() []DayGroup {
	return slices.Clone(g.days)
}

// MostRecentFirst returns the day groups descending by date, the order in
// which they are presented.
func (g *Grouping) MostRecentFirst() []DayGroup {
	out := slices.Clone(g.days)
	slices.Reverse(out)
	return out
}

// Day looks up the group for a single date.
func (g *Grouping) Day(key DayKey) (DayGroup, bool) {
	i, ok := g.index[key]
	if !ok {
		return DayGroup{}, false
	}
	return g.days[i], true
}

// Flatten returns every record in grouping order.
func (g *Grouping) Flatten() []SummaryRecord {
	var out []SummaryRecord
	for _, d := range g.days {
		for _, s := range d.Sessions {
			out = append(out, s.Records...)
		}
	}
	return out
}

// ValidateGap rejects gap thresholds that are not positive finite numbers.
func ValidateGap(gapMinutes float64) error {
	if !(gapMinutes > 0) || math.IsInf(gapMinutes, 1) {
		return fmt.Errorf("%w: gap minutes must be a positive finite number, got %v", ErrInvalidArgument, gapMinutes)
	}
	return nil
}

// GroupSessions partitions records by calendar day in loc and, within each
// day, into sessions split wherever the time since the previous record
// exceeds gapMinutes. A nil loc means time.Local. The input is not modified.
func GroupSessions(records []SummaryRecord, gapMinutes float64, loc *time.Location) (*Grouping, error) {
	if err := ValidateGap(gapMinutes); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	sorted := slices.Clone(records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	g := &Grouping{index: make(map[DayKey]int)}
	for _, rec := range sorted {
		key := DayKeyOf(rec.CreatedAt, loc)
		i, ok := g.index[key]
		if !ok {
			g.days = append(g.days, DayGroup{Key: key})
			i = len(g.days) - 1
			g.index[key] = i
		}

		day := &g.days[i]
		if len(day.Sessions) == 0 {
			day.Sessions = append(day.Sessions, Session{Records: []SummaryRecord{rec}})
			continue
		}

		cur := &day.Sessions[len(day.Sessions)-1]
		elapsed := rec.CreatedAt.Sub(cur.End()).Minutes()
		if elapsed > gapMinutes {
			day.Sessions = append(day.Sessions, Session{Records: []SummaryRecord{rec}})
			continue
		}
		cur.Records = append(cur.Records, rec)
	}

	// Ascending instants can still visit local dates out of order across a
	// DST fold, so keep the day list sorted by key.
	sort.SliceStable(g.days, func(i, j int) bool { return g.days[i].Key.Before(g.days[j].Key) })
	for i, d := range g.days {
		g.index[d.Key] = i
	}
	return g, nil
}
