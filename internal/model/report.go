package model

import (
	"fmt"
	"time"
)

// Severity tags a possible cause.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// UrgencyLevel is the triage outcome of a report.
type UrgencyLevel string

const (
	UrgencyHomeCare    UrgencyLevel = "green_home_care"
	UrgencyDoctorVisit UrgencyLevel = "yellow_doctor_visit"
	UrgencyEmergency   UrgencyLevel = "red_emergency"
)

// QA is one answered question in ask order, ready for narrative use.
type QA struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Prompt     string `json:"prompt" bson:"prompt"`
	Answer     string `json:"answer" bson:"answer"`
}

// PatientInfo is the flat demographic record extracted from the
// session's demographic answers.
type PatientInfo struct {
	Name   string            `json:"name" bson:"name"`
	Age    int               `json:"age" bson:"age"`
	Gender string            `json:"gender" bson:"gender"`
	Other  map[string]string `json:"other,omitempty" bson:"other,omitempty"`
}

// ReportRequest is the structured input assembled for the report
// collaborator from a completed session.
type ReportRequest struct {
	SessionID string      `json:"sessionId"`
	Patient   PatientInfo `json:"patient"`
	Narrative []QA        `json:"narrative"`
}

// CauseDetail carries the optional expanded breakdown of a cause.
type CauseDetail struct {
	AboutThis       []string `json:"about_this,omitempty" bson:"aboutThis,omitempty"`
	WhatYouCanDoNow []string `json:"what_you_can_do_now,omitempty" bson:"whatYouCanDoNow,omitempty"`
	Warning         string   `json:"warning,omitempty" bson:"warning,omitempty"`
}

// PossibleCause is one differential in the collaborator's response.
type PossibleCause struct {
	ID               string       `json:"id" bson:"id"`
	Title            string       `json:"title" bson:"title"`
	ShortDescription string       `json:"short_description,omitempty" bson:"shortDescription,omitempty"`
	Subtitle         string       `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Severity         Severity     `json:"severity" bson:"severity"`
	Probability      float64      `json:"probability" bson:"probability"`
	Detail           *CauseDetail `json:"detail,omitempty" bson:"detail,omitempty"`
}

// Report is the validated structured result of one report-generation
// call, persisted once per session.
type Report struct {
	ReportID        string          `json:"report_id" bson:"_id"`
	SessionID       string          `json:"session_id" bson:"sessionId"`
	AssessmentTopic string          `json:"assessment_topic" bson:"assessmentTopic"`
	Patient         PatientInfo     `json:"patient_info" bson:"patient"`
	Summary         []string        `json:"summary" bson:"summary"`
	PossibleCauses  []PossibleCause `json:"possible_causes" bson:"possibleCauses"`
	Advice          []string        `json:"advice" bson:"advice"`
	UrgencyLevel    UrgencyLevel    `json:"urgency_level" bson:"urgencyLevel"`
	GeneratedAt     time.Time       `json:"generated_at" bson:"generatedAt"`
}

// Validate checks the structural contract of a collaborator response.
// Every violation wraps ErrReportMalformed so callers can distinguish
// collaborator garbage from collaborator unavailability.
func (r *Report) Validate() error {
	if len(r.PossibleCauses) == 0 {
		return fmt.Errorf("%w: empty possible_causes", ErrReportMalformed)
	}
	for i, c := range r.PossibleCauses {
		if c.Probability < 0 || c.Probability > 1 {
			return fmt.Errorf("%w: possible_causes[%d] probability %v out of [0,1]", ErrReportMalformed, i, c.Probability)
		}
		switch c.Severity {
		case SeverityMild, SeverityModerate, SeveritySevere:
		default:
			return fmt.Errorf("%w: possible_causes[%d] severity %q", ErrReportMalformed, i, c.Severity)
		}
	}
	switch r.UrgencyLevel {
	case UrgencyHomeCare, UrgencyDoctorVisit, UrgencyEmergency:
	default:
		return fmt.Errorf("%w: urgency_level %q", ErrReportMalformed, r.UrgencyLevel)
	}
	return nil
}
