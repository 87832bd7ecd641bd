package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"medintake/internal/catalog"
	"medintake/internal/model"
	"medintake/internal/store"

	"github.com/google/uuid"
)

// IntakeService is the questionnaire engine: it owns session creation,
// answer recording, symptom-driven follow-up insertion and conditional
// question insertion. All mutation goes through a per-session lock.
type IntakeService struct {
	catalog *catalog.Catalog
	store   store.SessionStore
	locks   *store.KeyLock
}

// NewIntakeService creates the engine.
func NewIntakeService(cat *catalog.Catalog, st store.SessionStore, locks *store.KeyLock) *IntakeService {
	return &IntakeService{catalog: cat, store: st, locks: locks}
}

// StartResult is returned by Start.
type StartResult struct {
	SessionID     string              `json:"sessionId"`
	FirstQuestion *model.Question     `json:"firstQuestion,omitempty"`
	TotalEstimate int                 `json:"totalEstimate"`
	Status        model.SessionStatus `json:"status"`
}

// AnswerResult is returned by Answer: either the next question or a
// completed status.
type AnswerResult struct {
	NextQuestion *model.Question     `json:"nextQuestion,omitempty"`
	Status       model.SessionStatus `json:"status"`
	Answered     int                 `json:"answered"`
	Total        int                 `json:"total"`
}

// SessionView is a read-only snapshot for clients.
type SessionView struct {
	SessionID string              `json:"sessionId"`
	Status    model.SessionStatus `json:"status"`
	Pending   *model.Question     `json:"pending,omitempty"`
	Answered  int                 `json:"answered"`
	Total     int                 `json:"total"`
}

// Start creates a session. The base sequence is fixed here: all base
// questions in catalog order, plus any conditional question whose
// trigger is already satisfied by the profile hints. Non-compulsory
// questions answerable from the hints are recorded without being
// asked; compulsory questions are always asked.
func (s *IntakeService) Start(ctx context.Context, profileHints map[string]string) (*StartResult, error) {
	sess := &model.Session{
		ID:        uuid.NewString(),
		Answers:   make(map[string]string),
		Status:    model.SessionInProgress,
		CreatedAt: time.Now().UTC(),
	}
	for _, q := range s.catalog.BaseQuestions() {
		sess.Base = append(sess.Base, q.ID)
	}
	// Pre-fill non-compulsory base questions from the hints, in ask
	// order so the recorded answer order stays deterministic. Unusable
	// hints are ignored and the question is asked instead.
	prefill := func(qid string) {
		value, ok := profileHints[qid]
		if !ok {
			return
		}
		q, _ := s.catalog.Question(qid)
		if q.Compulsory {
			return
		}
		if err := validateAnswer(q, value); err != nil {
			return
		}
		sess.Record(qid, value)
	}
	for _, qid := range sess.Base {
		prefill(qid)
	}
	// Conditional questions join the base sequence at creation only
	// when their trigger answer is already recorded, never on a bare
	// hint: they must not be asked before their trigger is known.
	for _, cq := range s.catalog.ConditionalsSatisfiedBy(sess.Answers) {
		if !sess.Contains(cq.ID) {
			sess.Base = append(sess.Base, cq.ID)
			prefill(cq.ID)
		}
	}
	if sess.NextPending() == "" {
		now := time.Now().UTC()
		sess.Status = model.SessionCompleted
		sess.CompletedAt = &now
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	res := &StartResult{
		SessionID:     sess.ID,
		TotalEstimate: len(sess.EffectiveSequence()),
		Status:        sess.Status,
	}
	if id := sess.NextPending(); id != "" {
		q, _ := s.catalog.Question(id)
		res.FirstQuestion = &q
	}
	return res, nil
}

// Answer records an answer for the current pending question and runs
// detection and insertion. The whole step is transactional: on any
// failure the stored session is untouched.
func (s *IntakeService) Answer(ctx context.Context, sessionID, questionID, value string) (*AnswerResult, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	stored, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if stored.Status == model.SessionCompleted {
		return nil, model.ErrSessionCompleted
	}
	pending := stored.NextPending()
	if questionID != pending {
		return nil, fmt.Errorf("%w: pending is %q", model.ErrOutOfOrderAnswer, pending)
	}
	q, ok := s.catalog.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown question %q", model.ErrInvalidAnswer, questionID)
	}
	if err := validateAnswer(q, value); err != nil {
		return nil, err
	}

	// Mutate a copy; publish only once everything applied.
	sess := stored.Clone()
	sess.Record(questionID, value)

	if q.Role == model.RolePrimarySymptom {
		for _, symptom := range s.catalog.MatchSymptoms(value) {
			for _, fu := range s.catalog.FollowUpsFor(symptom) {
				if !sess.Contains(fu.ID) {
					sess.Inserted = append(sess.Inserted, fu.ID)
				}
			}
		}
	}
	// Conditional questions go after any follow-ups queued above.
	for _, cq := range s.catalog.ConditionalFor(questionID, value) {
		if !sess.Contains(cq.ID) {
			sess.Inserted = append(sess.Inserted, cq.ID)
		}
	}

	next := sess.NextPending()
	if next == "" {
		now := time.Now().UTC()
		sess.Status = model.SessionCompleted
		sess.CompletedAt = &now
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	res := &AnswerResult{
		Status:   sess.Status,
		Answered: len(sess.AnswerOrder),
		Total:    len(sess.EffectiveSequence()),
	}
	if next != "" {
		nq, _ := s.catalog.Question(next)
		res.NextQuestion = &nq
	}
	return res, nil
}

// Get returns a read-only snapshot of a session.
func (s *IntakeService) Get(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := &SessionView{
		SessionID: sess.ID,
		Status:    sess.Status,
		Answered:  len(sess.AnswerOrder),
		Total:     len(sess.EffectiveSequence()),
	}
	if id := sess.NextPending(); id != "" {
		q, _ := s.catalog.Question(id)
		view.Pending = &q
	}
	return view, nil
}

// End deletes a session from the store.
func (s *IntakeService) End(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	if _, err := s.store.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.locks.Forget(sessionID)
	return nil
}

// validateAnswer checks a value against the question's declared kind
// and options. Failures wrap model.ErrInvalidAnswer.
func validateAnswer(q model.Question, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%w: empty answer for %q", model.ErrInvalidAnswer, q.ID)
	}
	switch q.Kind {
	case model.AnswerText:
		return nil
	case model.AnswerNumeric:
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fmt.Errorf("%w: %q is not numeric for %q", model.ErrInvalidAnswer, value, q.ID)
		}
		return nil
	case model.AnswerSingleChoice:
		if !optionAllowed(q.Options, trimmed) {
			return fmt.Errorf("%w: %q is not an option of %q", model.ErrInvalidAnswer, value, q.ID)
		}
		return nil
	case model.AnswerMultiChoice:
		parts := strings.Split(trimmed, ",")
		for _, p := range parts {
			if !optionAllowed(q.Options, strings.TrimSpace(p)) {
				return fmt.Errorf("%w: %q is not an option of %q", model.ErrInvalidAnswer, p, q.ID)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: question %q has unknown kind", model.ErrInvalidAnswer, q.ID)
	}
}

func optionAllowed(options []string, v string) bool {
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return true
		}
	}
	return false
}
