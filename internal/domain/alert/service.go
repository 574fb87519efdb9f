package alert

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medicare/clinic-api/pkg/pagination"
)

// Service owns alert lifecycle rules. Alert content is immutable after
// creation; only read and resolve transitions mutate a row.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts a new alert after validating its type and severity.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Alert, error) {
	a, err := buildAlert(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, a.ID)
}

// CreateIfNoOpenDuplicate inserts the alert unless an unresolved alert with
// the same related disease and type already exists. Returns the open alert
// (new or pre-existing) and whether a new row was written.
func (s *Service) CreateIfNoOpenDuplicate(ctx context.Context, input CreateInput) (*Alert, bool, error) {
	a, err := buildAlert(input)
	if err != nil {
		return nil, false, err
	}
	if a.RelatedDisease == nil {
		return nil, false, &ValidationError{Field: "related_disease", Reason: "required for deduplicated alerts"}
	}
	inserted, err := s.repo.CreateIfNoOpenDuplicate(ctx, a)
	if err != nil {
		return nil, false, err
	}
	if inserted {
		created, err := s.repo.GetByID(ctx, a.ID)
		return created, true, err
	}
	existing, err := s.repo.FindOpenByDiseaseAndType(ctx, *a.RelatedDisease, a.AlertType)
	if errors.Is(err, ErrNotFound) {
		// The conflicting alert was resolved between our insert and this
		// read. Treat as suppressed; the next detector pass recreates it.
		log.Warn().Str("disease", *a.RelatedDisease).Str("alert_type", a.AlertType).
			Msg("open alert vanished after suppressed insert")
		return nil, false, nil
	}
	return existing, false, err
}

// HasOpen reports whether an unresolved alert exists for the disease and type.
func (s *Service) HasOpen(ctx context.Context, disease, alertType string) (bool, error) {
	_, err := s.repo.FindOpenByDiseaseAndType(ctx, disease, alertType)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*Alert, int, error) {
	if filter.AlertType != "" && !validTypes[filter.AlertType] {
		return nil, 0, &ValidationError{Field: "alert_type", Reason: "unknown alert type"}
	}
	return s.repo.List(ctx, filter, page)
}

// MarkRead flags the alert as read. Idempotent.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return s.repo.MarkRead(ctx, id)
}

// Resolve closes the alert. Resolution is terminal.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, resolvedBy string, notes *string) (*Alert, error) {
	if strings.TrimSpace(resolvedBy) == "" {
		return nil, &ValidationError{Field: "resolved_by", Reason: "must not be empty"}
	}
	return s.repo.Resolve(ctx, id, resolvedBy, notes)
}

func buildAlert(input CreateInput) (*Alert, error) {
	if !validTypes[input.AlertType] {
		return nil, &ValidationError{Field: "alert_type", Reason: "unknown alert type"}
	}
	if !validSeverities[input.Severity] {
		return nil, &ValidationError{Field: "severity", Reason: "unknown severity"}
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return &Alert{
		AlertType:        input.AlertType,
		Severity:         input.Severity,
		Title:            input.Title,
		Message:          input.Message,
		RelatedDisease:   input.RelatedDisease,
		RelatedRecordID:  input.RelatedRecordID,
		RelatedStudentID: input.RelatedStudentID,
	}, nil
}
