package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/usecase"
	"aegis-dashboard/utils/logger"

	"github.com/labstack/echo/v4"
)

// SummaryHandler serves a patient's summaries, flat or grouped into sessions.
type SummaryHandler struct {
	list       *usecase.ListSummaries
	group      *usecase.GroupSummaries
	defaultGap float64
	defaultLoc *time.Location
}

// NewSummaryHandler creates a new summary handler. defaultGap and
// defaultLoc apply when a request does not override them.
func NewSummaryHandler(list *usecase.ListSummaries, group *usecase.GroupSummaries, defaultGap float64, defaultLoc *time.Location) *SummaryHandler {
	return &SummaryHandler{list: list, group: group, defaultGap: defaultGap, defaultLoc: defaultLoc}
}

type summaryResponse struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	MoodCues          []string  `json:"mood_cues"`
	PossibleStressors []string  `json:"possible_stressors"`
	SuggestedFollowUp string    `json:"suggested_follow_up"`
	Display           struct {
		MoodCues          string `json:"mood_cues"`
		PossibleStressors string `json:"possible_stressors"`
		SuggestedFollowUp string `json:"suggested_follow_up"`
	} `json:"display"`
}

type sessionGroupResponse struct {
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Summaries []summaryResponse `json:"summaries"`
}

type dayGroupResponse struct {
	Date     string                 `json:"date"`
	Count    int                    `json:"count"`
	Sessions []sessionGroupResponse `json:"sessions"`
}

// List handles GET /v1/patients/:id/summaries.
func (h *SummaryHandler) List(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	patientID := c.Param("id")
	dr, err := domain.ParseDateRange(c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return mapDomainError(err)
	}

	ctx := logger.WithPatientID(c.Request().Context(), patientID)
	result, err := h.list.Execute(ctx, claims.Subject, patientID, dr)
	if err != nil {
		return mapDomainError(err)
	}

	out := make([]summaryResponse, 0, len(result.Records))
	for _, rec := range result.Records {
		out = append(out, toSummaryResponse(rec))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"summaries":   out,
		"quarantined": result.Quarantined,
	})
}

// Sessions handles GET /v1/patients/:id/sessions.
func (h *SummaryHandler) Sessions(c echo.Context) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	patientID := c.Param("id")
	dr, err := domain.ParseDateRange(c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return mapDomainError(err)
	}
	gap, err := h.gapParam(c.QueryParam("gap"))
	if err != nil {
		return mapDomainError(err)
	}
	loc, err := h.locationParam(c.QueryParam("tz"))
	if err != nil {
		return mapDomainError(err)
	}

	ctx := logger.WithPatientID(c.Request().Context(), patientID)
	result, err := h.group.Execute(ctx, claims.Subject, patientID, dr, gap, loc)
	if err != nil {
		return mapDomainError(err)
	}

	days := make([]dayGroupResponse, 0, result.Grouping.Len())
	for _, d := range result.Grouping.MostRecentFirst() {
		dg := dayGroupResponse{
			Date:     d.Key.String(),
			Count:    d.RecordCount(),
			Sessions: make([]sessionGroupResponse, 0, len(d.Sessions)),
		}
		for _, s := range d.Sessions {
			sg := sessionGroupResponse{
				Start:     s.Start().In(loc),
				End:       s.End().In(loc),
				Summaries: make([]summaryResponse, 0, len(s.Records)),
			}
			for _, rec := range s.Records {
				r := toSummaryResponse(rec)
				r.CreatedAt = r.CreatedAt.In(loc)
				sg.Summaries = append(sg.Summaries, r)
			}
			dg.Sessions = append(dg.Sessions, sg)
		}
		days = append(days, dg)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"gap_minutes": gap,
		"timezone":    loc.String(),
		"total":       result.Total,
		"quarantined": result.Quarantined,
		"days":        days,
	})
}

func (h *SummaryHandler) gapParam(raw string) (float64, error) {
	if raw == "" {
		return h.defaultGap, nil
	}
	gap, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: gap must be a number of minutes", domain.ErrInvalidArgument)
	}
	return gap, nil
}

func (h *SummaryHandler) locationParam(raw string) (*time.Location, error) {
	if raw == "" {
		if h.defaultLoc == nil {
			return time.Local, nil
		}
		return h.defaultLoc, nil
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", domain.ErrInvalidArgument, raw)
	}
	return loc, nil
}

func toSummaryResponse(rec domain.SummaryRecord) summaryResponse {
	out := summaryResponse{
		ID:                rec.ID,
		CreatedAt:         rec.CreatedAt,
		MoodCues:          nonNil(rec.Payload.MoodCues),
		PossibleStressors: nonNil(rec.Payload.PossibleStressors),
		SuggestedFollowUp: rec.Payload.SuggestedFollowUp,
	}
	out.Display.MoodCues = labelText(rec.Payload.MoodCues)
	out.Display.PossibleStressors = labelText(rec.Payload.PossibleStressors)
	out.Display.SuggestedFollowUp = rec.Payload.SuggestedFollowUp
	if out.Display.SuggestedFollowUp == "" {
		out.Display.SuggestedFollowUp = domain.EmptyFollowUpText
	}
	return out
}

func labelText(labels []string) string {
	if len(labels) == 0 {
		return domain.EmptyLabelsText
	}
	return strings.Join(labels, ", ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
