package student

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medicare/clinic-api/pkg/pagination"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Student, error) {
	number := strings.TrimSpace(input.StudentNumber)
	if number == "" {
		return nil, &ValidationError{Field: "student_number", Reason: "must not be empty"}
	}
	name := strings.TrimSpace(input.FullName)
	if name == "" {
		return nil, &ValidationError{Field: "full_name", Reason: "must not be empty"}
	}

	st := &Student{
		StudentNumber: number,
		FullName:      name,
		DateOfBirth:   input.DateOfBirth,
		Grade:         input.Grade,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, st.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*Student, error) {
	return s.repo.GetByNumber(ctx, strings.TrimSpace(number))
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Student, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, &ValidationError{Field: "full_name", Reason: "must not be empty"}
		}
		st.FullName = name
	}
	if input.DateOfBirth != nil {
		st.DateOfBirth = input.DateOfBirth
	}
	if input.Grade != nil {
		st.Grade = input.Grade
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, search string, page pagination.Params) ([]*Student, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page)
}
