package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"medintake/internal/catalog"
	"medintake/internal/llm"
	"medintake/internal/model"
	"medintake/internal/repository"
	"medintake/internal/store"

	"github.com/google/uuid"
)

// ReportService is the report assembler: it turns a completed session
// into the structured collaborator request, validates the structured
// response, and persists the result. The collaborator is called at
// most once per session.
type ReportService struct {
	catalog     *catalog.Catalog
	store       store.SessionStore
	sessionRepo repository.SessionRepo
	reportRepo  repository.ReportRepo
	client      llm.Client
	locks       *store.KeyLock
}

// NewReportService creates the assembler.
func NewReportService(
	cat *catalog.Catalog,
	st store.SessionStore,
	sessionRepo repository.SessionRepo,
	reportRepo repository.ReportRepo,
	client llm.Client,
	locks *store.KeyLock,
) *ReportService {
	return &ReportService{
		catalog:     cat,
		store:       st,
		sessionRepo: sessionRepo,
		reportRepo:  reportRepo,
		client:      client,
		locks:       locks,
	}
}

// Generate produces the report for a completed session. A previously
// generated report is returned as-is; otherwise the collaborator is
// called once, its response validated, and the report persisted
// alongside the archived session.
func (s *ReportService) Generate(ctx context.Context, sessionID string) (*model.Report, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != model.SessionCompleted {
		return nil, model.ErrSessionNotCompleted
	}

	existing, err := s.reportRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load existing report: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	req := s.BuildRequest(sess)
	raw, err := s.client.GenerateReport(ctx, llm.BuildReportPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrReportMalformed, err)
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}

	report.ReportID = uuid.NewString()
	report.SessionID = sess.ID
	report.Patient = req.Patient
	report.GeneratedAt = time.Now().UTC()
	if report.AssessmentTopic == "" {
		report.AssessmentTopic = "general_health"
	}

	if err := s.reportRepo.Save(ctx, &report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	if err := s.sessionRepo.Archive(ctx, sess); err != nil {
		return nil, fmt.Errorf("archive session: %w", err)
	}
	return &report, nil
}

// Fetch returns a stored report without triggering generation.
func (s *ReportService) Fetch(ctx context.Context, sessionID string) (*model.Report, error) {
	report, err := s.reportRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, model.ErrReportNotFound
	}
	return report, nil
}

// BuildRequest extracts the flat patient-info record from demographic
// answers and groups the remaining answers, in ask order, into the
// narrative list for the collaborator.
func (s *ReportService) BuildRequest(sess *model.Session) *model.ReportRequest {
	req := &model.ReportRequest{SessionID: sess.ID}
	for _, qid := range sess.AnswerOrder {
		answer := sess.Answers[qid]
		q, ok := s.catalog.Question(qid)
		if !ok {
			continue
		}
		if q.Demographic {
			switch q.Field {
			case "name":
				req.Patient.Name = answer
			case "age":
				req.Patient.Age = parseAge(answer)
			case "gender":
				req.Patient.Gender = strings.ToLower(strings.TrimSpace(answer))
			default:
				if req.Patient.Other == nil {
					req.Patient.Other = make(map[string]string)
				}
				key := q.Field
				if key == "" {
					key = q.ID
				}
				req.Patient.Other[key] = answer
			}
			continue
		}
		req.Narrative = append(req.Narrative, model.QA{
			QuestionID: qid,
			Prompt:     q.Prompt,
			Answer:     answer,
		})
	}
	return req
}

// parseAge extracts a number from an age answer. Range answers like
// "26_35" yield the middle of the range.
func parseAge(v string) int {
	v = strings.TrimSpace(v)
	if lo, hi, ok := strings.Cut(v, "_"); ok {
		l, err1 := strconv.Atoi(lo)
		h, err2 := strconv.Atoi(hi)
		if err1 == nil && err2 == nil {
			return (l + h) / 2
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	digits := strings.TrimFunc(v, func(r rune) bool { return r < '0' || r > '9' })
	if n, err := strconv.Atoi(digits); err == nil {
		return n
	}
	return 0
}
