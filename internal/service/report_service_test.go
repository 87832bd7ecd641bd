package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"medintake/internal/llm"
	"medintake/internal/model"
	"medintake/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	archived map[string]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{archived: make(map[string]*model.Session)}
}

func (f *fakeSessionRepo) Archive(ctx context.Context, session *model.Session) error {
	f.archived[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	return f.archived[id], nil
}

type fakeReportRepo struct {
	reports map[string]*model.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*model.Report)}
}

func (f *fakeReportRepo) Save(ctx context.Context, report *model.Report) error {
	f.reports[report.SessionID] = report
	return nil
}

func (f *fakeReportRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Report, error) {
	return f.reports[sessionID], nil
}

type stubLLM struct {
	payload string
	err     error
	calls   int
}

func (s *stubLLM) GenerateReport(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.payload, s.err
}

const validReportJSON = `{
  "assessment_topic": "fever_assessment",
  "summary": ["Patient reports fever for two days.", "No red-flag symptoms."],
  "possible_causes": [
    {
      "id": "viral_infection",
      "title": "Viral infection",
      "short_description": "Common viral illness",
      "severity": "mild",
      "probability": 0.7,
      "detail": {
        "about_this": ["Usually self-limiting."],
        "what_you_can_do_now": ["Rest.", "Hydrate."]
      }
    },
    {
      "id": "bacterial_infection",
      "title": "Bacterial infection",
      "severity": "moderate",
      "probability": 0.3
    }
  ],
  "advice": ["Monitor temperature.", "See a doctor if symptoms persist."],
  "urgency_level": "yellow_doctor_visit"
}`

func completedSession(id string) *model.Session {
	done := time.Now().UTC()
	return &model.Session{
		ID:       id,
		Base:     []string{"q_name", "q_complaint", "q_gender", "q_age", "q_smoking"},
		Inserted: []string{"fu_fever_onset"},
		Answers: map[string]string{
			"q_name":         "Ada Lovelace",
			"q_complaint":    "I have a fever",
			"q_gender":       "Female",
			"q_age":          "34",
			"q_smoking":      "no",
			"fu_fever_onset": "two days ago",
		},
		AnswerOrder: []string{"q_name", "q_complaint", "q_gender", "q_age", "q_smoking", "fu_fever_onset"},
		Status:      model.SessionCompleted,
		CreatedAt:   done.Add(-10 * time.Minute),
		CompletedAt: &done,
	}
}

type reportFixture struct {
	svc      *ReportService
	store    *store.MemoryStore
	sessions *fakeSessionRepo
	reports  *fakeReportRepo
	client   *stubLLM
}

func newReportFixture(t *testing.T, payload string) *reportFixture {
	t.Helper()
	f := &reportFixture{
		store:    store.NewMemoryStore(),
		sessions: newFakeSessionRepo(),
		reports:  newFakeReportRepo(),
		client:   &stubLLM{payload: payload},
	}
	f.svc = NewReportService(testCatalog(t), f.store, f.sessions, f.reports, f.client, store.NewKeyLock())
	return f
}

func TestGenerateRequiresCompletedSession(t *testing.T) {
	f := newReportFixture(t, validReportJSON)
	ctx := context.Background()

	sess := completedSession("s1")
	sess.Status = model.SessionInProgress
	sess.CompletedAt = nil
	require.NoError(t, f.store.Put(ctx, sess))

	_, err := f.svc.Generate(ctx, "s1")
	assert.ErrorIs(t, err, model.ErrSessionNotCompleted)
	assert.Zero(t, f.client.calls)
}

func TestGenerateUnknownSession(t *testing.T) {
	f := newReportFixture(t, validReportJSON)

	_, err := f.svc.Generate(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestGenerateHappyPath(t *testing.T) {
	f := newReportFixture(t, validReportJSON)
	ctx := context.Background()
	require.NoError(t, f.store.Put(ctx, completedSession("s1")))

	report, err := f.svc.Generate(ctx, "s1")
	require.NoError(t, err)

	assert.NotEmpty(t, report.ReportID)
	assert.Equal(t, "s1", report.SessionID)
	assert.Equal(t, "fever_assessment", report.AssessmentTopic)
	assert.Equal(t, model.UrgencyDoctorVisit, report.UrgencyLevel)
	assert.False(t, report.GeneratedAt.IsZero())
	require.Len(t, report.PossibleCauses, 2)
	assert.Equal(t, "viral_infection", report.PossibleCauses[0].ID)

	// Demographics come from the session's demographic answers.
	assert.Equal(t, "Ada Lovelace", report.Patient.Name)
	assert.Equal(t, 34, report.Patient.Age)
	assert.Equal(t, "female", report.Patient.Gender)

	// Persisted alongside the archived session.
	assert.NotNil(t, f.reports.reports["s1"])
	assert.NotNil(t, f.sessions.archived["s1"])
}

func TestGenerateIsIdempotent(t *testing.T) {
	f := newReportFixture(t, validReportJSON)
	ctx := context.Background()
	require.NoError(t, f.store.Put(ctx, completedSession("s1")))

	first, err := f.svc.Generate(ctx, "s1")
	require.NoError(t, err)
	second, err := f.svc.Generate(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, 1, f.client.calls)
	assert.Equal(t, first.ReportID, second.ReportID)
}

func TestGenerateMalformedResponses(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", "I am not JSON, sorry"},
		{"empty causes", `{"possible_causes": [], "urgency_level": "green_home_care"}`},
		{"bad severity", `{"possible_causes": [{"id": "x", "title": "X", "severity": "catastrophic", "probability": 0.5}], "urgency_level": "green_home_care"}`},
		{"probability out of range", `{"possible_causes": [{"id": "x", "title": "X", "severity": "mild", "probability": 1.5}], "urgency_level": "green_home_care"}`},
		{"bad urgency", `{"possible_causes": [{"id": "x", "title": "X", "severity": "mild", "probability": 0.5}], "urgency_level": "purple_alert"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newReportFixture(t, tc.payload)
			ctx := context.Background()
			require.NoError(t, f.store.Put(ctx, completedSession("s1")))

			_, err := f.svc.Generate(ctx, "s1")
			assert.ErrorIs(t, err, model.ErrReportMalformed)

			// Nothing persisted; a later retry may call the
			// collaborator again.
			assert.Empty(t, f.reports.reports)
			assert.Empty(t, f.sessions.archived)
		})
	}
}

func TestGenerateCollaboratorFailure(t *testing.T) {
	f := newReportFixture(t, "")
	f.client.err = errors.New("upstream timeout")
	ctx := context.Background()
	require.NoError(t, f.store.Put(ctx, completedSession("s1")))

	_, err := f.svc.Generate(ctx, "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrReportMalformed)
	assert.Empty(t, f.reports.reports)
}

func TestGenerateAcceptsMockClientShape(t *testing.T) {
	f := newReportFixture(t, "")
	f.svc.client = llm.NewMockClient()
	ctx := context.Background()
	require.NoError(t, f.store.Put(ctx, completedSession("s1")))

	report, err := f.svc.Generate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyHomeCare, report.UrgencyLevel)
}

func TestFetch(t *testing.T) {
	f := newReportFixture(t, validReportJSON)
	ctx := context.Background()

	_, err := f.svc.Fetch(ctx, "s1")
	assert.ErrorIs(t, err, model.ErrReportNotFound)

	require.NoError(t, f.store.Put(ctx, completedSession("s1")))
	generated, err := f.svc.Generate(ctx, "s1")
	require.NoError(t, err)

	fetched, err := f.svc.Fetch(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, generated.ReportID, fetched.ReportID)
	assert.Equal(t, 1, f.client.calls)
}

func TestBuildRequestSplitsDemographicsFromNarrative(t *testing.T) {
	f := newReportFixture(t, validReportJSON)

	req := f.svc.BuildRequest(completedSession("s1"))

	assert.Equal(t, "s1", req.SessionID)
	assert.Equal(t, "Ada Lovelace", req.Patient.Name)
	assert.Equal(t, 34, req.Patient.Age)
	assert.Equal(t, "female", req.Patient.Gender)

	// Narrative holds the non-demographic answers in ask order.
	require.Len(t, req.Narrative, 3)
	assert.Equal(t, "q_complaint", req.Narrative[0].QuestionID)
	assert.Equal(t, "I have a fever", req.Narrative[0].Answer)
	assert.Equal(t, "q_smoking", req.Narrative[1].QuestionID)
	assert.Equal(t, "fu_fever_onset", req.Narrative[2].QuestionID)
	assert.Equal(t, "When did the fever start?", req.Narrative[2].Prompt)
}

func TestParseAge(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"34", 34},
		{" 34 ", 34},
		{"26_35", 30},
		{"34.7", 34},
		{"about 40", 40},
		{"", 0},
		{"unknown", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseAge(tc.in), "parseAge(%q)", tc.in)
	}
}
