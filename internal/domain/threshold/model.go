package threshold

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no threshold exists for the given id or disease.
	ErrNotFound = errors.New("threshold not found")
	// ErrDuplicate is returned when a threshold already exists for the disease.
	ErrDuplicate = errors.New("threshold already exists for disease")
)

// ValidationError reports invalid threshold input. It surfaces to the admin
// caller with a precise message rather than a generic failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DiseaseThreshold maps to the disease_threshold table. At most one row
// exists per normalized disease name.
type DiseaseThreshold struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DiseaseName  string    `db:"disease_name" json:"disease_name"`
	CasesPerWeek int       `db:"cases_per_week" json:"cases_per_week"`
	Description  *string   `db:"description" json:"description,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	UpdatedBy    *string   `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CreateInput is the admin-facing creation payload. CasesPerWeek is accepted
// as a float and floored before persistence; only non-positive values are
// rejected.
type CreateInput struct {
	DiseaseName  string  `json:"disease_name"`
	CasesPerWeek float64 `json:"cases_per_week"`
	Description  *string `json:"description,omitempty"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	CasesPerWeek *float64 `json:"cases_per_week,omitempty"`
	Description  *string  `json:"description,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// NormalizeDiseaseName trims and collapses whitespace in a disease name.
// Matching against stored names is case-insensitive; the display casing of
// the first writer wins.
func NormalizeDiseaseName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
