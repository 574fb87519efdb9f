package alert

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicare/clinic-api/pkg/pagination"
)

// Repository is the persistence contract for alerts.
type Repository interface {
	// Create inserts the alert unconditionally.
	Create(ctx context.Context, a *Alert) error

	// CreateIfNoOpenDuplicate inserts the alert only when no unresolved alert
	// with the same related_disease and alert_type exists. The partial unique
	// index on the alert table makes this atomic under concurrent writers.
	// Returns false when the insert was suppressed.
	CreateIfNoOpenDuplicate(ctx context.Context, a *Alert) (bool, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)

	// FindOpenByDiseaseAndType returns the unresolved alert for the disease
	// and alert type, or ErrNotFound.
	FindOpenByDiseaseAndType(ctx context.Context, disease, alertType string) (*Alert, error)

	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]*Alert, int, error)

	// MarkRead sets is_read and read_at. Idempotent; re-marking does not
	// advance read_at.
	MarkRead(ctx context.Context, id uuid.UUID) (*Alert, error)

	// Resolve closes the alert. Returns ErrAlreadyResolved when it is
	// already closed.
	Resolve(ctx context.Context, id uuid.UUID, resolvedBy string, notes *string) (*Alert, error)
}
