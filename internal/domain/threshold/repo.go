package threshold

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for disease thresholds.
type Repository interface {
	// Create inserts a new threshold. Returns ErrDuplicate when a threshold
	// already exists for the disease name.
	Create(ctx context.Context, t *DiseaseThreshold) error
	// CreateIfAbsent inserts a threshold unless one already exists for the
	// disease name, using insert-or-ignore semantics so that concurrent
	// callers never produce duplicate rows. Reports whether a row was
	// inserted.
	CreateIfAbsent(ctx context.Context, t *DiseaseThreshold) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DiseaseThreshold, error)
	// GetByDisease returns the threshold for a disease regardless of its
	// activity state. Returns ErrNotFound when absent.
	GetByDisease(ctx context.Context, disease string) (*DiseaseThreshold, error)
	Update(ctx context.Context, t *DiseaseThreshold) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*DiseaseThreshold, error)
	ListActive(ctx context.Context) ([]*DiseaseThreshold, error)
}
