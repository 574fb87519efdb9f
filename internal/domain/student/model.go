package student

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("student not found")
	// ErrDuplicate is returned when a student number is already registered.
	ErrDuplicate = errors.New("student number already registered")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Student maps to the student table.
type Student struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	StudentNumber string     `db:"student_number" json:"student_number"`
	FullName      string     `db:"full_name" json:"full_name"`
	DateOfBirth   *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Grade         *string    `db:"grade" json:"grade,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateInput struct {
	StudentNumber string     `json:"student_number"`
	FullName      string     `json:"full_name"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Grade         *string    `json:"grade,omitempty"`
}

type UpdateInput struct {
	FullName    *string    `json:"full_name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Grade       *string    `json:"grade,omitempty"`
}
