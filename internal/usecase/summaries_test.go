package usecase

import (
	"context"
	"testing"
	"time"

	"aegis-dashboard/internal/domain"
	"aegis-dashboard/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testTherapist = "therapist-1"
	testPatient   = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func raw(id string, at time.Time, body string) domain.RawSummary {
	return domain.RawSummary{ID: id, PatientID: testPatient, CreatedAt: at, SummaryData: []byte(body)}
}

func TestListSummaries_DecodesAndOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	patients := mocks.NewMockPatientRepository(ctrl)
	summaries := mocks.NewMockSummaryRepository(ctrl)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	patients.EXPECT().IsAssigned(gomock.Any(), testTherapist, testPatient).Return(true, nil)
	summaries.EXPECT().ListSummaries(gomock.Any(), testPatient, domain.DateRange{}).Return([]domain.RawSummary{
		raw("a", base, `{"moodCues":["<b>anxious</b>"," "],"possibleStressors":[],"suggestedFollowUp":"check in"}`),
		raw("b", base.Add(time.Hour), `{"moodCues":[]}`),
		raw("bad", base.Add(2*time.Hour), `{not json`),
		raw("", base, `{}`),
	}, nil)

	got, err := NewListSummaries(patients, summaries, stripTags{}, discardLogger()).
		Execute(context.Background(), testTherapist, testPatient, domain.DateRange{})
	require.NoError(t, err)

	require.Len(t, got.Records, 2)
	assert.Equal(t, 2, got.Quarantined)
	assert.Equal(t, "b", got.Records[0].ID)
	assert.Equal(t, "a", got.Records[1].ID)
	assert.Equal(t, []string{"anxious"}, got.Records[1].Payload.MoodCues)
	assert.Equal(t, []string{}, got.Records[0].Payload.PossibleStressors)
}

func TestListSummaries_RejectsBadPatientID(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := NewListSummaries(mocks.NewMockPatientRepository(ctrl), mocks.NewMockSummaryRepository(ctrl), nil, discardLogger()).
		Execute(context.Background(), testTherapist, "not-a-uuid", domain.DateRange{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestListSummaries_UnassignedPatient(t *testing.T) {
	ctrl := gomock.NewController(t)
	patients := mocks.NewMockPatientRepository(ctrl)
	patients.EXPECT().IsAssigned(gomock.Any(), testTherapist, testPatient).Return(false, nil)

	_, err := NewListSummaries(patients, mocks.NewMockSummaryRepository(ctrl), nil, discardLogger()).
		Execute(context.Background(), testTherapist, testPatient, domain.DateRange{})
	assert.ErrorIs(t, err, domain.ErrPatientNotAssigned)
}

func TestListSummaries_DropsForeignPatientRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	patients := mocks.NewMockPatientRepository(ctrl)
	summaries := mocks.NewMockSummaryRepository(ctrl)

	foreign := raw("x", time.Now(), `{}`)
	foreign.PatientID = "someone-else"
	patients.EXPECT().IsAssigned(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	summaries.EXPECT().ListSummaries(gomock.Any(), testPatient, gomock.Any()).Return([]domain.RawSummary{foreign}, nil)

	got, err := NewListSummaries(patients, summaries, nil, discardLogger()).
		Execute(context.Background(), testTherapist, testPatient, domain.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.Equal(t, 1, got.Quarantined)
}

func TestGroupSummaries(t *testing.T) {
	ctrl := gomock.NewController(t)
	patients := mocks.NewMockPatientRepository(ctrl)
	summaries := mocks.NewMockSummaryRepository(ctrl)

	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	patients.EXPECT().IsAssigned(gomock.Any(), testTherapist, testPatient).Return(true, nil)
	summaries.EXPECT().ListSummaries(gomock.Any(), testPatient, gomock.Any()).Return([]domain.RawSummary{
		raw("s1", day, `{}`),
		raw("s2", day.Add(10*time.Minute), `{}`),
		raw("s3", day.Add(2*time.Hour), `{}`),
		raw("s4", day.Add(24*time.Hour), `{}`),
	}, nil)

	list := NewListSummaries(patients, summaries, nil, discardLogger())
	got, err := NewGroupSummaries(list).Execute(context.Background(), testTherapist, testPatient,
		domain.DateRange{}, domain.DefaultSessionGapMinutes, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 4, got.Total)
	days := got.Grouping.Days()
	require.Len(t, days, 2)
	assert.Equal(t, "2026-03-01", days[0].Key.String())
	require.Len(t, days[0].Sessions, 2)
	assert.Len(t, days[0].Sessions[0].Records, 2)
	assert.Len(t, days[1].Sessions, 1)
}

func TestGroupSummaries_InvalidGapSkipsFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	list := NewListSummaries(mocks.NewMockPatientRepository(ctrl), mocks.NewMockSummaryRepository(ctrl), nil, discardLogger())

	_, err := NewGroupSummaries(list).Execute(context.Background(), testTherapist, testPatient,
		domain.DateRange{}, 0, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestPurgeSummaries(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSummaryRepository(ctrl)
	uc := NewPurgeSummaries(repo, discardLogger())

	for _, phrase := range []string{"", "delete all summaries", "DELETE ALL SUMMARIES "} {
		_, err := uc.Execute(context.Background(), phrase)
		assert.ErrorIs(t, err, domain.ErrConfirmationRequired, phrase)
	}

	repo.EXPECT().DeleteAllSummaries(gomock.Any()).Return(int64(12), nil)
	n, err := uc.Execute(context.Background(), PurgeConfirmationPhrase)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestListPatients(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPatientRepository(ctrl)
	want := []domain.Patient{{ID: testPatient, UniqueDisplayID: "T-001", ConsentToShare: true}}
	repo.EXPECT().ListAssignedPatients(gomock.Any(), testTherapist).Return(want, nil)

	got, err := NewListPatients(repo, discardLogger()).Execute(context.Background(), testTherapist)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
