package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/infrastructure/sanitize"

	"github.com/spf13/cobra"
)

// exportedSummary is one row of a summaries export file.
type exportedSummary struct {
	ID          string          `json:"id"`
	PatientID   string          `json:"teen_id"`
	CreatedAt   time.Time       `json:"created_at"`
	SummaryData json.RawMessage `json:"summary_data"`
}

func newGroupCmd(a *app) *cobra.Command {
	var file, tz, start, end string
	var gap float64

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Group an exported summaries file into sessions offline",
		Long: `Reads a JSON array of summary rows ({id, teen_id, created_at, summary_data})
and prints them grouped by day and session without contacting the server.
--start and --end filter rows the same way the API does (date-only bounds are UTC days).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("gap") {
				gap = a.cfg.Grouping.GapMinutes
			}
			if err := domain.ValidateGap(gap); err != nil {
				return err
			}
			window, err := domain.ParseDateRange(start, end)
			if err != nil {
				return err
			}
			loc, err := a.cfg.Location()
			if tz != "" {
				loc, err = time.LoadLocation(tz)
			}
			if err != nil {
				return fmt.Errorf("resolving time zone: %w", err)
			}

			records, skipped, err := readExport(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			records = inRange(records, window)
			if skipped > 0 {
				a.printer.Warning("%d malformed summaries were skipped", skipped)
			}

			grouping, err := domain.GroupSessions(records, gap, loc)
			if err != nil {
				return err
			}
			return renderDays(a.printer, groupingViews(grouping, loc), gap)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "export file (- for stdin)")
	cmd.Flags().Float64Var(&gap, "gap", 0, "minutes of inactivity that start a new session")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone for day boundaries")
	cmd.Flags().StringVar(&start, "start", "", "earliest date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&end, "end", "", "latest date (YYYY-MM-DD or RFC3339)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readExport(path string, stdin io.Reader) ([]domain.SummaryRecord, int, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading export: %w", err)
	}

	var rows []exportedSummary
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing export: %w", err)
	}

	sanitizer := sanitize.NewSanitizer()
	records := make([]domain.SummaryRecord, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		rec, err := domain.DecodeSummary(domain.RawSummary{
			ID:          r.ID,
			PatientID:   r.PatientID,
			CreatedAt:   r.CreatedAt,
			SummaryData: r.SummaryData,
		}, sanitizer)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// inRange keeps the records the server's date filter would return.
func inRange(records []domain.SummaryRecord, r domain.DateRange) []domain.SummaryRecord {
	out := records[:0]
	for _, rec := range records {
		if r.Contains(rec.CreatedAt) {
			out = append(out, rec)
		}
	}
	return out
}

func groupingViews(g *domain.Grouping, loc *time.Location) []dayView {
	days := g.MostRecentFirst()
	out := make([]dayView, 0, len(days))
	for _, d := range days {
		v := dayView{Date: d.Key.String(), Count: d.RecordCount()}
		for _, s := range d.Sessions {
			sv := make([]summaryView, 0, len(s.Records))
			for _, rec := range s.Records {
				sv = append(sv, summaryView{
					At:        rec.CreatedAt.In(loc),
					MoodCues:  joinOr(rec.Payload.MoodCues, domain.EmptyLabelsText),
					Stressors: joinOr(rec.Payload.PossibleStressors, domain.EmptyLabelsText),
					FollowUp:  orDefault(rec.Payload.SuggestedFollowUp, domain.EmptyFollowUpText),
				})
			}
			v.Sessions = append(v.Sessions, sv)
		}
		out = append(out, v)
	}
	return out
}

func joinOr(labels []string, fallback string) string {
	if len(labels) == 0 {
		return fallback
	}
	return strings.Join(labels, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
