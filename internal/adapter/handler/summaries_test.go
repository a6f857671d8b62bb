package handler

import (
	"net/http"
	"testing"
	"time"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/mocks"
	"aegis-dashboard/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const patientID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func newSummaryEcho(t *testing.T, loc *time.Location) (*echo.Echo, *mocks.MockPatientRepository, *mocks.MockSummaryRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	patients := mocks.NewMockPatientRepository(ctrl)
	summaries := mocks.NewMockSummaryRepository(ctrl)

	list := usecase.NewListSummaries(patients, summaries, nil, discardLogger())
	h := NewSummaryHandler(list, usecase.NewGroupSummaries(list), domain.DefaultSessionGapMinutes, loc)

	e := newTestEcho()
	e.GET("/v1/patients/:id/summaries", h.List, asTherapist("u1"))
	e.GET("/v1/patients/:id/sessions", h.Sessions, asTherapist("u1"))
	return e, patients, summaries
}

func row(id string, at time.Time, payload string) domain.RawSummary {
	return domain.RawSummary{ID: id, PatientID: patientID, CreatedAt: at, SummaryData: []byte(payload)}
}

func TestSummaryHandler_List(t *testing.T) {
	e, patients, summaries := newSummaryEcho(t, time.UTC)
	at := time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)

	patients.EXPECT().IsAssigned(gomock.Any(), "u1", patientID).Return(true, nil)
	summaries.EXPECT().ListSummaries(gomock.Any(), patientID, gomock.Any()).
		DoAndReturn(func(_ any, _ string, dr domain.DateRange) ([]domain.RawSummary, error) {
			require.NotNil(t, dr.Start)
			require.NotNil(t, dr.End)
			assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *dr.Start)
			assert.Equal(t, time.Date(2026, 4, 2, 23, 59, 59, int(999*time.Millisecond), time.UTC), *dr.End)
			return []domain.RawSummary{
				row("s1", at, `{"moodCues":["tired","withdrawn"],"possibleStressors":[],"suggestedFollowUp":""}`),
			}, nil
		})

	rec := doJSON(e, http.MethodGet, "/v1/patients/"+patientID+"/summaries?start=2026-04-01&end=2026-04-02", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode(t, rec)["summaries"].([]any)
	require.Len(t, list, 1)
	s := list[0].(map[string]any)
	display := s["display"].(map[string]any)
	assert.Equal(t, "tired, withdrawn", display["mood_cues"])
	assert.Equal(t, domain.EmptyLabelsText, display["possible_stressors"])
	assert.Equal(t, domain.EmptyFollowUpText, display["suggested_follow_up"])
	assert.Equal(t, []any{}, s["possible_stressors"])
}

func TestSummaryHandler_ListErrors(t *testing.T) {
	e, patients, _ := newSummaryEcho(t, time.UTC)

	rec := doJSON(e, http.MethodGet, "/v1/patients/"+patientID+"/summaries?start=2026-05-01&end=2026-04-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/patients/not-a-uuid/summaries", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	patients.EXPECT().IsAssigned(gomock.Any(), "u1", patientID).Return(false, nil)
	rec = doJSON(e, http.MethodGet, "/v1/patients/"+patientID+"/summaries", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSummaryHandler_Sessions(t *testing.T) {
	e, patients, summaries := newSummaryEcho(t, time.UTC)
	d1 := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 4, 3, 9, 0, 0, 0, time.UTC)

	patients.EXPECT().IsAssigned(gomock.Any(), "u1", patientID).Return(true, nil)
	summaries.EXPECT().ListSummaries(gomock.Any(), patientID, domain.DateRange{}).Return([]domain.RawSummary{
		row("b", d2, `{}`),
		row("a2", d1.Add(30*time.Minute), `{}`),
		row("a1", d1, `{}`),
		row("a3", d1.Add(61*time.Minute), `{}`),
	}, nil)

	rec := doJSON(e, http.MethodGet, "/v1/patients/"+patientID+"/sessions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(30), body["gap_minutes"])
	assert.Equal(t, "UTC", body["timezone"])
	days := body["days"].([]any)
	require.Len(t, days, 2)

	newest := days[0].(map[string]any)
	assert.Equal(t, "2026-04-03", newest["date"])

	oldest := days[1].(map[string]any)
	assert.Equal(t, "2026-04-01", oldest["date"])
	assert.Equal(t, float64(3), oldest["count"])
	sessions := oldest["sessions"].([]any)
	require.Len(t, sessions, 2)
	first := sessions[0].(map[string]any)["summaries"].([]any)
	require.Len(t, first, 2)
	assert.Equal(t, "a1", first[0].(map[string]any)["id"])
	assert.Equal(t, "a2", first[1].(map[string]any)["id"])
}

func TestSummaryHandler_SessionsTimeZone(t *testing.T) {
	e, patients, summaries := newSummaryEcho(t, time.UTC)
	late := time.Date(2026, 4, 1, 14, 50, 0, 0, time.UTC) // 23:50 in Tokyo
	early := late.Add(20 * time.Minute)                   // 00:10 next day in Tokyo

	patients.EXPECT().IsAssigned(gomock.Any(), "u1", patientID).Return(true, nil)
	summaries.EXPECT().ListSummaries(gomock.Any(), patientID, gomock.Any()).Return([]domain.RawSummary{
		row("late", late, `{}`),
		row("early", early, `{}`),
	}, nil)

	rec := doJSON(e, http.MethodGet, "/v1/patients/"+patientID+"/sessions?tz=Asia/Tokyo", "", nil)
	if rec.Code == http.StatusBadRequest {
		t.Skip("tz database not available")
	}
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode(t, rec)["days"].([]any)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-04-02", days[0].(map[string]any)["date"])
}

func TestSummaryHandler_SessionsBadParams(t *testing.T) {
	e, _, _ := newSummaryEcho(t, time.UTC)

	for _, q := range []string{"gap=0", "gap=-5", "gap=abc", "gap=NaN", "tz=Mars/Olympus"} {
		rec := doJSON(e, http.MethodGet, "/v1/patients/"+patientID+"/sessions?"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
