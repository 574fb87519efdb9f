package threshold

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Service is the single source of truth for how many cases of a disease per
// week constitute a concern.
type Service struct {
	repo Repository

	// defaultCasesPerWeek is used when a threshold is auto-provisioned for a
	// disease seen for the first time. Injected from configuration.
	defaultCasesPerWeek int
}

func NewService(repo Repository, defaultCasesPerWeek int) *Service {
	return &Service{repo: repo, defaultCasesPerWeek: defaultCasesPerWeek}
}

// List returns all configured thresholds, any activity state.
func (s *Service) List(ctx context.Context) ([]*DiseaseThreshold, error) {
	return s.repo.List(ctx)
}

// ListActive returns all active thresholds, for iterating surveillance
// checks across every configured disease.
func (s *Service) ListActive(ctx context.Context) ([]*DiseaseThreshold, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DiseaseThreshold, error) {
	return s.repo.GetByID(ctx, id)
}

// GetActiveByDisease returns the active threshold for a disease, or
// ErrNotFound when no threshold exists or the configured one is disabled.
func (s *Service) GetActiveByDisease(ctx context.Context, disease string) (*DiseaseThreshold, error) {
	t, err := s.repo.GetByDisease(ctx, NormalizeDiseaseName(disease))
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, ErrNotFound
	}
	return t, nil
}

// EnsureExists provisions a threshold with the system default when none
// exists for the disease, attributed to the triggering actor. Idempotent:
// concurrent calls for the same disease resolve to the same row via the
// storage-level uniqueness constraint.
func (s *Service) EnsureExists(ctx context.Context, disease, actorID string) (*DiseaseThreshold, error) {
	name := NormalizeDiseaseName(disease)
	if name == "" {
		return nil, &ValidationError{Field: "disease_name", Reason: "must not be empty"}
	}

	existing, err := s.repo.GetByDisease(ctx, name)
	if err == nil {
		return existing, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	desc := fmt.Sprintf("Auto-generated threshold for %s (system default: %d cases/week)",
		name, s.defaultCasesPerWeek)
	t := &DiseaseThreshold{
		DiseaseName:  name,
		CasesPerWeek: s.defaultCasesPerWeek,
		Description:  &desc,
		IsActive:     true,
		CreatedBy:    actorID,
	}
	if _, err := s.repo.CreateIfAbsent(ctx, t); err != nil {
		return nil, err
	}
	// Re-read so a lost insert race still returns the winning row.
	return s.repo.GetByDisease(ctx, name)
}

// Create adds an explicitly configured threshold. Returns ErrDuplicate when
// the disease already has one.
func (s *Service) Create(ctx context.Context, in CreateInput, actorID string) (*DiseaseThreshold, error) {
	name := NormalizeDiseaseName(in.DiseaseName)
	if name == "" {
		return nil, &ValidationError{Field: "disease_name", Reason: "must not be empty"}
	}
	cases, err := floorCases(in.CasesPerWeek)
	if err != nil {
		return nil, err
	}

	t := &DiseaseThreshold{
		DiseaseName:  name,
		CasesPerWeek: cases,
		Description:  in.Description,
		IsActive:     true,
		CreatedBy:    actorID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies a partial update. Returns ErrNotFound when the id does not
// exist.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, actorID string) (*DiseaseThreshold, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CasesPerWeek != nil {
		cases, err := floorCases(*in.CasesPerWeek)
		if err != nil {
			return nil, err
		}
		t.CasesPerWeek = cases
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	t.UpdatedBy = &actorID

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a threshold permanently. Soft-disabling via is_active is
// preferred when history must be retained.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// floorCases floors a fractional cases-per-week value and rejects results
// that are not positive.
func floorCases(v float64) (int, error) {
	cases := int(math.Floor(v))
	if cases <= 0 {
		return 0, &ValidationError{Field: "cases_per_week", Reason: "must be a positive number"}
	}
	return cases, nil
}
