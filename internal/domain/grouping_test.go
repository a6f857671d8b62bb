package domain

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, at time.Time) SummaryRecord {
	return SummaryRecord{ID: id, PatientID: "teen-1", CreatedAt: at}
}

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func sessionIDs(d DayGroup) [][]string {
	out := make([][]string, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		ids := make([]string, 0, len(s.Records))
		for _, r := range s.Records {
			ids = append(ids, r.ID)
		}
		out = append(out, ids)
	}
	return out
}

func TestGroupSessions_Empty(t *testing.T) {
	g, err := GroupSessions(nil, 30, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Days())
	assert.Empty(t, g.Flatten())
}

func TestGroupSessions_SingleRecord(t *testing.T) {
	g, err := GroupSessions([]SummaryRecord{rec("a", at(t, "2024-01-10T09:00:00Z"))}, 30, time.UTC)

	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	day, ok := g.Day(DayKey{Year: 2024, Month: time.January, Day: 10})
	require.True(t, ok)
	assert.Equal(t, "2024-01-10", day.Key.String())
	assert.Equal(t, [][]string{{"a"}}, sessionIDs(day))
}

func TestGroupSessions_SplitsOnGap(t *testing.T) {
	records := []SummaryRecord{
		rec("a", at(t, "2024-01-10T09:00:00Z")),
		rec("b", at(t, "2024-01-10T09:15:00Z")),
		rec("c", at(t, "2024-01-10T10:00:00Z")),
	}

	g, err := GroupSessions(records, 30, time.UTC)

	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, sessionIDs(g.Days()[0]))
}

func TestGroupSessions_LocalMidnightSplitsDays(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	// 23:50 and 00:10 Tokyo time, 20 minutes apart.
	records := []SummaryRecord{
		rec("late", time.Date(2024, 3, 1, 23, 50, 0, 0, tokyo)),
		rec("early", time.Date(2024, 3, 2, 0, 10, 0, 0, tokyo)),
	}

	g, err := GroupSessions(records, 30, tokyo)

	require.NoError(t, err)
	require.Equal(t, 2, g.Len())
	days := g.Days()
	assert.Equal(t, "2024-03-01", days[0].Key.String())
	assert.Equal(t, [][]string{{"late"}}, sessionIDs(days[0]))
	assert.Equal(t, "2024-03-02", days[1].Key.String())
	assert.Equal(t, [][]string{{"early"}}, sessionIDs(days[1]))

	// The same instants fall on one UTC day.
	g, err = GroupSessions(records, 30, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestGroupSessions_SortsUnorderedInput(t *testing.T) {
	records := []SummaryRecord{
		rec("0800", at(t, "2024-01-10T08:00:00Z")),
		rec("0810", at(t, "2024-01-10T08:10:00Z")),
		rec("0805", at(t, "2024-01-10T08:05:00Z")),
	}
	original := append([]SummaryRecord(nil), records...)

	g, err := GroupSessions(records, 30, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"0800", "0805", "0810"}}, sessionIDs(g.Days()[0]))
	assert.Equal(t, original, records, "input must not be reordered")
}

func TestGroupSessions_GapEqualToThresholdStaysTogether(t *testing.T) {
	records := []SummaryRecord{
		rec("a", at(t, "2024-01-10T08:00:00Z")),
		rec("b", at(t, "2024-01-10T08:30:00Z")),
		rec("c", at(t, "2024-01-10T09:00:01Z")),
	}

	g, err := GroupSessions(records, 30, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, sessionIDs(g.Days()[0]))
}

func TestGroupSessions_ComparesAgainstLastRecordOfSession(t *testing.T) {
	// Each step is 20 minutes; the run spans an hour but never splits.
	records := []SummaryRecord{
		rec("a", at(t, "2024-01-10T08:00:00Z")),
		rec("b", at(t, "2024-01-10T08:20:00Z")),
		rec("c", at(t, "2024-01-10T08:40:00Z")),
		rec("d", at(t, "2024-01-10T09:00:00Z")),
	}

	g, err := GroupSessions(records, 30, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c", "d"}}, sessionIDs(g.Days()[0]))
}

func TestGroupSessions_IdenticalTimestampsKeepInputOrder(t *testing.T) {
	ts := at(t, "2024-01-10T08:00:00Z")
	records := []SummaryRecord{rec("first", ts), rec("second", ts), rec("third", ts)}

	g, err := GroupSessions(records, 30, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"first", "second", "third"}}, sessionIDs(g.Days()[0]))
}

func TestGroupSessions_FractionalGap(t *testing.T) {
	records := []SummaryRecord{
		rec("a", at(t, "2024-01-10T08:00:00Z")),
		rec("b", at(t, "2024-01-10T08:00:45Z")),
	}

	g, err := GroupSessions(records, 0.5, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}}, sessionIDs(g.Days()[0]))
}

func TestGroupSessions_InvalidGap(t *testing.T) {
	records := []SummaryRecord{rec("a", at(t, "2024-01-10T08:00:00Z"))}

	for _, gap := range []float64{0, -1, -30, math.NaN(), math.Inf(1), math.Inf(-1)} {
		t.Run(fmt.Sprint(gap), func(t *testing.T) {
			g, err := GroupSessions(records, gap, time.UTC)

			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, g)
		})
	}
}

func TestGrouping_MostRecentFirst(t *testing.T) {
	records := []SummaryRecord{
		rec("jan10", at(t, "2024-01-10T08:00:00Z")),
		rec("jan12", at(t, "2024-01-12T08:00:00Z")),
		rec("jan11", at(t, "2024-01-11T08:00:00Z")),
	}

	g, err := GroupSessions(records, 30, time.UTC)
	require.NoError(t, err)

	var keys []string
	for _, d := range g.MostRecentFirst() {
		keys = append(keys, d.Key.String())
	}
	assert.Equal(t, []string{"2024-01-12", "2024-01-11", "2024-01-10"}, keys)

	_, ok := g.Day(DayKey{Year: 2024, Month: time.January, Day: 9})
	assert.False(t, ok)
}

func randomBatch(r *rand.Rand, n int) []SummaryRecord {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]SummaryRecord, n)
	for i := range out {
		offset := time.Duration(r.IntN(3*24*60)) * time.Minute
		out[i] = rec(fmt.Sprintf("r%03d", i), base.Add(offset))
	}
	return out
}

func TestGroupSessions_Properties(t *testing.T) {
	const gap = 30.0
	r := rand.New(rand.NewPCG(7, 11))

	for iter := 0; iter < 50; iter++ {
		batch := randomBatch(r, 1+r.IntN(80))

		g, err := GroupSessions(batch, gap, time.UTC)
		require.NoError(t, err)

		seen := make(map[string]int)
		for _, day := range g.Days() {
			for si, s := range day.Sessions {
				require.NotEmpty(t, s.Records)
				for i, rc := range s.Records {
					seen[rc.ID]++
					assert.Equal(t, day.Key, DayKeyOf(rc.CreatedAt, time.UTC))
					if i > 0 {
						assert.LessOrEqual(t, rc.CreatedAt.Sub(s.Records[i-1].CreatedAt).Minutes(), gap)
					}
				}
				if si > 0 {
					prev := day.Sessions[si-1]
					assert.Greater(t, s.Start().Sub(prev.End()).Minutes(), gap)
				}
			}
		}
		assert.Len(t, seen, len(batch))
		for id, n := range seen {
			assert.Equal(t, 1, n, "record %s placed %d times", id, n)
		}

		shuffled := append([]SummaryRecord(nil), batch...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		permuted, err := GroupSessions(shuffled, gap, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, structure(g), structure(permuted))

		again, err := GroupSessions(g.Flatten(), gap, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, structure(g), structure(again))
	}
}

// structure renders a grouping as day -> sessions of timestamps so that
// ties between equal instants do not make permuted runs compare unequal.
func structure(g *Grouping) map[string][][]time.Time {
	out := make(map[string][][]time.Time)
	for _, d := range g.Days() {
		for _, s := range d.Sessions {
			ts := make([]time.Time, 0, len(s.Records))
			for _, r := range s.Records {
				ts = append(ts, r.CreatedAt)
			}
			out[d.Key.String()] = append(out[d.Key.String()], ts)
		}
	}
	return out
}
