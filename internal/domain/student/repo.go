package student

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicare/clinic-api/pkg/pagination"
)

// Repository is the persistence contract for students.
type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*Student, error)
	GetByNumber(ctx context.Context, number string) (*Student, error)
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, page pagination.Params) ([]*Student, int, error)
}
