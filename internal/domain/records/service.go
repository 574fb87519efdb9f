package records

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medicare/clinic-api/pkg/pagination"
)

// Notifier is invoked after a record is committed so disease surveillance can
// react to the new case. Notifier failures never affect the stored record.
type Notifier interface {
	OnRecordCreated(ctx context.Context, disease, recordedBy string, recordID, studentID uuid.UUID) error
}

type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService builds the record service. notifier may be nil when surveillance
// is disabled.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create persists the visit and then notifies surveillance. The record write
// is the source of truth; a failing notifier is logged and dropped.
func (s *Service) Create(ctx context.Context, input CreateInput, recordedBy string) (*MedicalRecord, error) {
	rec, err := buildRecord(input, recordedBy)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	created, err := s.repo.GetByID(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.OnRecordCreated(ctx, created.DiseaseCategory, created.RecordedBy, created.ID, created.StudentID); err != nil {
			log.Error().Err(err).
				Str("record_id", created.ID.String()).
				Str("disease", created.DiseaseCategory).
				Msg("surveillance check failed after record creation")
		}
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*MedicalRecord, int, error) {
	return s.repo.List(ctx, filter, page)
}

// Update applies partial edits. Disease category and visit date are fixed at
// creation; correcting those means deleting and re-entering the visit so the
// surveillance counts stay honest.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MedicalRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Severity != nil {
		if !validSeverities[*input.Severity] {
			return nil, &ValidationError{Field: "severity", Reason: "must be mild, moderate or severe"}
		}
		rec.Severity = *input.Severity
	}
	if input.Symptoms != nil {
		if strings.TrimSpace(*input.Symptoms) == "" {
			return nil, &ValidationError{Field: "symptoms", Reason: "must not be empty"}
		}
		rec.Symptoms = *input.Symptoms
	}
	if input.Treatment != nil {
		rec.Treatment = input.Treatment
	}
	if input.Notes != nil {
		rec.Notes = input.Notes
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns bucketed case counts for one disease. interval is week or
// month; the window defaults to the last 12 weeks.
func (s *Service) Stats(ctx context.Context, disease, interval string, from, to *time.Time) ([]DiseaseBucket, error) {
	disease = normalizeDisease(disease)
	if disease == "" {
		return nil, &ValidationError{Field: "disease", Reason: "must not be empty"}
	}
	if interval == "" {
		interval = "week"
	}
	if interval != "week" && interval != "month" {
		return nil, &ValidationError{Field: "interval", Reason: "must be week or month"}
	}

	end := time.Now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -12*7)
	if from != nil {
		start = *from
	}
	if !start.Before(end) {
		return nil, &ValidationError{Field: "from", Reason: "must be before to"}
	}
	return s.repo.StatsByDisease(ctx, disease, interval, start, end)
}

func buildRecord(input CreateInput, recordedBy string) (*MedicalRecord, error) {
	if input.StudentID == uuid.Nil {
		return nil, &ValidationError{Field: "student_id", Reason: "required"}
	}
	disease := normalizeDisease(input.DiseaseCategory)
	if disease == "" {
		return nil, &ValidationError{Field: "disease_category", Reason: "must not be empty"}
	}
	if !validSeverities[input.Severity] {
		return nil, &ValidationError{Field: "severity", Reason: "must be mild, moderate or severe"}
	}
	if strings.TrimSpace(input.Symptoms) == "" {
		return nil, &ValidationError{Field: "symptoms", Reason: "must not be empty"}
	}
	if strings.TrimSpace(recordedBy) == "" {
		return nil, &ValidationError{Field: "recorded_by", Reason: "must not be empty"}
	}

	visit := time.Now()
	if input.VisitDate != nil {
		visit = *input.VisitDate
	}
	if visit.After(time.Now().Add(time.Minute)) {
		return nil, &ValidationError{Field: "visit_date", Reason: "must not be in the future"}
	}

	return &MedicalRecord{
		StudentID:       input.StudentID,
		DiseaseCategory: disease,
		Severity:        input.Severity,
		Symptoms:        strings.TrimSpace(input.Symptoms),
		Treatment:       input.Treatment,
		Notes:           input.Notes,
		VisitDate:       visit,
		RecordedBy:      recordedBy,
	}, nil
}

func normalizeDisease(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
