package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionNextPending(t *testing.T) {
	s := &Session{
		Base:     []string{"q1", "q2"},
		Inserted: []string{"q3"},
		Answers:  map[string]string{},
	}

	assert.Equal(t, "q1", s.NextPending())
	s.Record("q1", "a")
	assert.Equal(t, "q2", s.NextPending())
	s.Record("q2", "b")
	assert.Equal(t, "q3", s.NextPending())
	s.Record("q3", "c")
	assert.Equal(t, "", s.NextPending())
}

func TestSessionEffectiveSequence(t *testing.T) {
	s := &Session{Base: []string{"q1", "q2"}, Inserted: []string{"q3", "q4"}}
	assert.Equal(t, []string{"q1", "q2", "q3", "q4"}, s.EffectiveSequence())
	assert.True(t, s.Contains("q1"))
	assert.True(t, s.Contains("q4"))
	assert.False(t, s.Contains("q5"))
}

func TestSessionRecordKeepsOrderOnce(t *testing.T) {
	s := &Session{}
	s.Record("q1", "a")
	s.Record("q2", "b")
	s.Record("q1", "a2")

	assert.Equal(t, []string{"q1", "q2"}, s.AnswerOrder)
	assert.Equal(t, "a2", s.Answers["q1"])
}

func TestSessionCloneIsDeep(t *testing.T) {
	done := time.Now()
	s := &Session{
		ID:          "s1",
		Base:        []string{"q1"},
		Inserted:    []string{"q2"},
		Answers:     map[string]string{"q1": "a"},
		AnswerOrder: []string{"q1"},
		CompletedAt: &done,
	}

	c := s.Clone()
	c.Base = append(c.Base, "q3")
	c.Inserted[0] = "changed"
	c.Answers["q1"] = "changed"
	c.AnswerOrder = append(c.AnswerOrder, "q2")
	*c.CompletedAt = done.Add(time.Hour)

	assert.Equal(t, []string{"q1"}, s.Base)
	assert.Equal(t, []string{"q2"}, s.Inserted)
	assert.Equal(t, "a", s.Answers["q1"])
	assert.Equal(t, []string{"q1"}, s.AnswerOrder)
	assert.True(t, s.CompletedAt.Equal(done))
}
