package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aegis-dashboard/internal/apiclient"
	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/output"

	"github.com/spf13/cobra"
)

func newSessionsCmd(a *app) *cobra.Command {
	var q apiclient.SessionQuery
	var gap float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sessions <patient-id>",
		Short: "Show a patient's summaries grouped by day and session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("gap") {
				gap = a.cfg.Grouping.GapMinutes
			}
			if err := domain.ValidateGap(gap); err != nil {
				return err
			}
			q.Gap = &gap
			if q.Timezone == "" && !strings.EqualFold(a.cfg.Grouping.Timezone, "local") {
				q.Timezone = a.cfg.Grouping.Timezone
			}

			res, err := a.client().Sessions(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.printer.Out())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			if res.Quarantined > 0 {
				a.printer.Warning("%d malformed summaries were skipped", res.Quarantined)
			}
			return renderDays(a.printer, toViews(res.Days), res.GapMinutes)
		},
	}
	cmd.Flags().StringVar(&q.Start, "start", "", "earliest date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&q.End, "end", "", "latest date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().Float64Var(&gap, "gap", 0, "minutes of inactivity that start a new session")
	cmd.Flags().StringVar(&q.Timezone, "tz", "", "IANA time zone for day boundaries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// dayView is the printable form of one day, independent of where it came from.
type dayView struct {
	Date     string
	Count    int
	Sessions [][]summaryView
}

type summaryView struct {
	At        time.Time
	MoodCues  string
	Stressors string
	FollowUp  string
}

func toViews(days []apiclient.DayGroup) []dayView {
	out := make([]dayView, 0, len(days))
	for _, d := range days {
		v := dayView{Date: d.Date, Count: d.Count}
		for _, s := range d.Sessions {
			sv := make([]summaryView, 0, len(s.Summaries))
			for _, sum := range s.Summaries {
				sv = append(sv, summaryView{
					At:        sum.CreatedAt,
					MoodCues:  sum.Display.MoodCues,
					Stressors: sum.Display.PossibleStressors,
					FollowUp:  sum.Display.SuggestedFollowUp,
				})
			}
			v.Sessions = append(v.Sessions, sv)
		}
		out = append(out, v)
	}
	return out
}

func renderDays(p *output.Printer, days []dayView, gap float64) error {
	if len(days) == 0 {
		p.Info("No summaries in range.")
		return nil
	}
	for _, d := range days {
		p.Header(fmt.Sprintf("%s  %s", d.Date, p.Dim(fmt.Sprintf("%d summaries, %d sessions", d.Count, len(d.Sessions)))))
		table := output.NewTable(p.Out(), []string{"SESSION", "TIME", "MOOD CUES", "STRESSORS", "FOLLOW-UP"})
		for i, s := range d.Sessions {
			for j, sum := range s {
				label := ""
				if j == 0 {
					label = p.Bold(fmt.Sprintf("#%d", i+1))
				}
				table.AddRow([]string{label, sum.At.Format("15:04"), sum.MoodCues, sum.Stressors, sum.FollowUp})
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	p.Info("%s", p.Dim(fmt.Sprintf("sessions split on gaps over %g minutes", gap)))
	return nil
}
