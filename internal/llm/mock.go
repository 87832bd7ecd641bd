package llm

import "context"

// MockClient returns a fixed, shape-valid report. Used when no API key
// is configured so the service runs end-to-end in development, and as
// the default stub in tests.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (m *MockClient) GenerateReport(ctx context.Context, prompt string) (string, error) {
	return `{
  "assessment_topic": "general_health",
  "summary": [
    "Assessment received and documented.",
    "Symptoms recorded from patient intake.",
    "A healthcare professional should review this case."
  ],
  "possible_causes": [
    {
      "id": "general_assessment",
      "title": "Various possible conditions",
      "short_description": "Multiple conditions could explain symptoms",
      "subtitle": "Requires professional medical evaluation",
      "severity": "mild",
      "probability": 1.0,
      "detail": {
        "about_this": ["Multiple conditions could explain these symptoms."],
        "what_you_can_do_now": ["Rest and stay hydrated.", "Monitor your symptoms."]
      }
    }
  ],
  "advice": [
    "Consult with a healthcare provider for personalized advice.",
    "Seek urgent care if symptoms worsen suddenly."
  ],
  "urgency_level": "green_home_care"
}`, nil
}
