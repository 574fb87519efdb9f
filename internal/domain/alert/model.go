package alert

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no alert exists for the given id.
	ErrNotFound = errors.New("alert not found")
	// ErrAlreadyResolved is returned when resolving an alert twice.
	// Resolution is terminal; alerts are never re-opened.
	ErrAlreadyResolved = errors.New("alert already resolved")
)

// ValidationError reports invalid alert input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Alert types.
const (
	TypeOutbreakSuspected = "OUTBREAK_SUSPECTED"
	TypeDuplicateDetected = "DUPLICATE_DETECTED"
	TypeSystem            = "SYSTEM"
)

// Severities.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

var validTypes = map[string]bool{
	TypeOutbreakSuspected: true,
	TypeDuplicateDetected: true,
	TypeSystem:            true,
}

var validSeverities = map[string]bool{
	SeverityLow:      true,
	SeverityMedium:   true,
	SeverityHigh:     true,
	SeverityCritical: true,
}

// Alert maps to the alert table. Content is immutable once created; only the
// read and resolve state transitions are permitted.
type Alert struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	AlertType        string     `db:"alert_type" json:"alert_type"`
	Severity         string     `db:"severity" json:"severity"`
	Title            string     `db:"title" json:"title"`
	Message          string     `db:"message" json:"message"`
	RelatedDisease   *string    `db:"related_disease" json:"related_disease,omitempty"`
	RelatedRecordID  *uuid.UUID `db:"related_record_id" json:"related_record_id,omitempty"`
	RelatedStudentID *uuid.UUID `db:"related_student_id" json:"related_student_id,omitempty"`
	IsRead           bool       `db:"is_read" json:"is_read"`
	ReadAt           *time.Time `db:"read_at" json:"read_at,omitempty"`
	IsResolved       bool       `db:"is_resolved" json:"is_resolved"`
	ResolvedBy       *string    `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt       *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	ResolutionNotes  *string    `db:"resolution_notes" json:"resolution_notes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// CreateInput carries the immutable content of a new alert.
type CreateInput struct {
	AlertType        string     `json:"alert_type"`
	Severity         string     `json:"severity"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	RelatedDisease   *string    `json:"related_disease,omitempty"`
	RelatedRecordID  *uuid.UUID `json:"related_record_id,omitempty"`
	RelatedStudentID *uuid.UUID `json:"related_student_id,omitempty"`
}

// ListFilter narrows alert listings.
type ListFilter struct {
	UnreadOnly     bool
	UnresolvedOnly bool
	AlertType      string
}
