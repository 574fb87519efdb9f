package records

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medicare/clinic-api/pkg/pagination"
)

// Repository is the persistence contract for medical records.
type Repository interface {
	Create(ctx context.Context, rec *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	Update(ctx context.Context, rec *MedicalRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*MedicalRecord, int, error)

	// CountByDiseaseBetween counts visits for a disease with visit_date in
	// the half-open interval [from, to). Disease names match
	// case-insensitively.
	CountByDiseaseBetween(ctx context.Context, disease string, from, to time.Time) (int, error)

	// StatsByDisease buckets case counts by week or month.
	StatsByDisease(ctx context.Context, disease, interval string, from, to time.Time) ([]DiseaseBucket, error)
}
