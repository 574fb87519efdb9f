package records

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("medical record not found")

// ValidationError reports invalid record input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Clinical severities for a visit, distinct from alert severities.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

var validSeverities = map[string]bool{
	SeverityMild:     true,
	SeverityModerate: true,
	SeveritySevere:   true,
}

// MedicalRecord maps to the medical_record table.
type MedicalRecord struct {
	ID              uuid.UUID `db:"id" json:"id"`
	StudentID       uuid.UUID `db:"student_id" json:"student_id"`
	DiseaseCategory string    `db:"disease_category" json:"disease_category"`
	Severity        string    `db:"severity" json:"severity"`
	Symptoms        string    `db:"symptoms" json:"symptoms"`
	Treatment       *string   `db:"treatment" json:"treatment,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	VisitDate       time.Time `db:"visit_date" json:"visit_date"`
	RecordedBy      string    `db:"recorded_by" json:"recorded_by"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CreateInput carries new visit data. VisitDate defaults to now when zero.
type CreateInput struct {
	StudentID       uuid.UUID  `json:"student_id"`
	DiseaseCategory string     `json:"disease_category"`
	Severity        string     `json:"severity"`
	Symptoms        string     `json:"symptoms"`
	Treatment       *string    `json:"treatment,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	VisitDate       *time.Time `json:"visit_date,omitempty"`
}

// UpdateInput carries partial edits to an existing record.
type UpdateInput struct {
	Severity  *string `json:"severity,omitempty"`
	Symptoms  *string `json:"symptoms,omitempty"`
	Treatment *string `json:"treatment,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ListFilter narrows record listings.
type ListFilter struct {
	StudentID *uuid.UUID
	Disease   string
	From      *time.Time
	To        *time.Time
}

// DiseaseBucket is one period's case count in a disease trend series.
type DiseaseBucket struct {
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	Cases       int       `db:"cases" json:"cases"`
}
