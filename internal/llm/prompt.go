package llm

import (
	"fmt"
	"sort"
	"strings"

	"medintake/internal/model"
)

// BuildReportPrompt renders the structured report request into the
// prompt sent to the collaborator. The output contract pins the JSON
// shape the report assembler validates: possible_causes with severity
// and probability, advice, and a fixed urgency_level vocabulary.
func BuildReportPrompt(req *model.ReportRequest) string {
	var sb strings.Builder
	sb.WriteString("=== PATIENT ASSESSMENT DATA ===\n\n")
	fmt.Fprintf(&sb, "Patient: %s, age %d, gender %s\n", orUnknown(req.Patient.Name), req.Patient.Age, orUnknown(req.Patient.Gender))
	extra := make([]string, 0, len(req.Patient.Other))
	for k := range req.Patient.Other {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		fmt.Fprintf(&sb, "%s: %s\n", k, req.Patient.Other[k])
	}
	sb.WriteString("\n")
	for _, qa := range req.Narrative {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n\n", qa.Prompt, qa.Answer)
	}

	sb.WriteString(`=== TASK ===
Based on the patient assessment data above, generate a medical report in STRICT JSON format:
{
  "assessment_topic": "short topic",
  "summary": ["clinical point 1", "clinical point 2", "clinical point 3"],
  "possible_causes": [
    {
      "id": "condition_name_lowercase",
      "title": "Condition Name",
      "short_description": "Brief one-line description",
      "subtitle": "Optional context",
      "severity": "mild|moderate|severe",
      "probability": 0.0,
      "detail": {
        "about_this": ["point 1", "point 2"],
        "what_you_can_do_now": ["step 1", "step 2"],
        "warning": "optional warning text"
      }
    }
  ],
  "advice": ["recommendation 1", "recommendation 2", "recommendation 3"],
  "urgency_level": "red_emergency|yellow_doctor_visit|green_home_care"
}

Guidelines:
- 2-3 most likely possible causes; probabilities should sum to roughly 1.0
- Consider patient age and gender
- Be specific and actionable, keep language patient-friendly
- Do NOT diagnose definitively or recommend prescription treatment
- urgency_level must reflect clinical urgency

Generate the JSON report now:`)
	return sb.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
