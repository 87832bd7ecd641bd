package model

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// Session is the per-conversation state. Base is fixed at creation;
// Inserted grows in arrival order as symptoms and conditions are
// detected. The effective sequence is Base followed by Inserted, and a
// question id appears at most once across both.
type Session struct {
	ID          string            `json:"id" bson:"_id"`
	Base        []string          `json:"base" bson:"base"`
	Inserted    []string          `json:"inserted" bson:"inserted"`
	Answers     map[string]string `json:"answers" bson:"answers"`
	AnswerOrder []string          `json:"answerOrder" bson:"answerOrder"`
	Status      SessionStatus     `json:"status" bson:"status"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// EffectiveSequence returns the full ask order: base questions then the
// insertion queue.
func (s *Session) EffectiveSequence() []string {
	seq := make([]string, 0, len(s.Base)+len(s.Inserted))
	seq = append(seq, s.Base...)
	seq = append(seq, s.Inserted...)
	return seq
}

// Contains reports whether the question is already part of the
// effective sequence.
func (s *Session) Contains(questionID string) bool {
	for _, id := range s.Base {
		if id == questionID {
			return true
		}
	}
	for _, id := range s.Inserted {
		if id == questionID {
			return true
		}
	}
	return false
}

// NextPending returns the first unanswered question id in the effective
// sequence, or "" when everything is answered.
func (s *Session) NextPending() string {
	for _, id := range s.Base {
		if _, ok := s.Answers[id]; !ok {
			return id
		}
	}
	for _, id := range s.Inserted {
		if _, ok := s.Answers[id]; !ok {
			return id
		}
	}
	return ""
}

// Record appends an answer. Answers only grow; callers are responsible
// for pending-order checks before recording.
func (s *Session) Record(questionID, value string) {
	if s.Answers == nil {
		s.Answers = make(map[string]string)
	}
	if _, ok := s.Answers[questionID]; !ok {
		s.AnswerOrder = append(s.AnswerOrder, questionID)
	}
	s.Answers[questionID] = value
}

// Clone returns a deep copy so the engine can mutate transactionally
// and only publish the session back to the store on success.
func (s *Session) Clone() *Session {
	c := *s
	c.Base = append([]string(nil), s.Base...)
	c.Inserted = append([]string(nil), s.Inserted...)
	c.AnswerOrder = append([]string(nil), s.AnswerOrder...)
	c.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
