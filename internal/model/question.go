package model

// AnswerKind defines how a question expects to be answered
type AnswerKind string

const (
	AnswerText         AnswerKind = "text"          // Free text
	AnswerSingleChoice AnswerKind = "single_choice" // Exactly one of Options
	AnswerMultiChoice  AnswerKind = "multi_choice"  // One or more of Options, comma-separated
	AnswerNumeric      AnswerKind = "numeric"       // Parseable number
)

// QuestionRole marks catalog-level designations the engine reacts to.
// At most one question per catalog carries each non-empty role.
type QuestionRole string

const (
	RoleNone           QuestionRole = ""
	RolePrimarySymptom QuestionRole = "primary_symptom" // Answer is scanned for symptom keywords
	RoleGender         QuestionRole = "gender"          // Answer can trigger conditional questions
)

// Condition gates a question on a previously recorded answer.
// The question is only inserted once the trigger question has been
// answered with the given value.
type Condition struct {
	QuestionID string `yaml:"question" json:"question"`
	Equals     string `yaml:"equals" json:"equals"`
}

// Question is an immutable catalog entry. Demographic questions are
// lifted into the flat patient-info record at report time; Field names
// the patient-info slot they map to (name, age, gender, ...).
type Question struct {
	ID          string       `yaml:"id" json:"id"`
	Prompt      string       `yaml:"prompt" json:"prompt"`
	Kind        AnswerKind   `yaml:"kind" json:"kind"`
	Options     []string     `yaml:"options,omitempty" json:"options,omitempty"`
	Compulsory  bool         `yaml:"compulsory" json:"compulsory"`
	Demographic bool         `yaml:"demographic,omitempty" json:"demographic,omitempty"`
	Field       string       `yaml:"field,omitempty" json:"field,omitempty"`
	Role        QuestionRole `yaml:"role,omitempty" json:"role,omitempty"`
	Condition   *Condition   `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// SymptomEntry is one decision-tree entry: a symptom with the keywords
// that detect it and the ordered follow-up questions it pulls in.
type SymptomEntry struct {
	Symptom   string   `yaml:"symptom" json:"symptom"`
	Keywords  []string `yaml:"keywords" json:"keywords"`
	FollowUps []string `yaml:"follow_ups" json:"followUps"`
}
