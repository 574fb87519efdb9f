package student

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medicare/clinic-api/pkg/pagination"
)

type mockRepo struct {
	students map[uuid.UUID]*Student
}

func newMockRepo() *mockRepo {
	return &mockRepo{students: make(map[uuid.UUID]*Student)}
}

func (m *mockRepo) Create(ctx context.Context, s *Student) error {
	for _, existing := range m.students {
		if existing.StudentNumber == s.StudentNumber {
			return ErrDuplicate
		}
	}
	s.ID = uuid.New()
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	cp := *s
	m.students[s.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) GetByNumber(ctx context.Context, number string) (*Student, error) {
	for _, s := range m.students {
		if s.StudentNumber == number {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(ctx context.Context, s *Student) error {
	if _, ok := m.students[s.ID]; !ok {
		return ErrNotFound
	}
	cp := *s
	cp.UpdatedAt = time.Now()
	m.students[s.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.students[id]; !ok {
		return ErrNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *mockRepo) List(ctx context.Context, search string, page pagination.Params) ([]*Student, int, error) {
	var result []*Student
	for _, s := range m.students {
		if search != "" &&
			!strings.Contains(strings.ToLower(s.FullName), strings.ToLower(search)) &&
			!strings.Contains(s.StudentNumber, search) {
			continue
		}
		cp := *s
		result = append(result, &cp)
	}
	return result, len(result), nil
}

func TestService_Create(t *testing.T) {
	svc := NewService(newMockRepo())
	st, err := svc.Create(context.Background(), CreateInput{
		StudentNumber: " S-1042 ",
		FullName:      "  Mei Tanaka ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.StudentNumber != "S-1042" || st.FullName != "Mei Tanaka" {
		t.Errorf("fields not trimmed: %+v", st)
	}
}

func TestService_Create_DuplicateNumber(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Create(context.Background(), CreateInput{StudentNumber: "S-1", FullName: "A"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(context.Background(), CreateInput{StudentNumber: "S-1", FullName: "B"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	var ve *ValidationError
	if _, err := svc.Create(context.Background(), CreateInput{StudentNumber: " ", FullName: "A"}); !errors.As(err, &ve) {
		t.Errorf("blank number: got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{StudentNumber: "S-1", FullName: ""}); !errors.As(err, &ve) {
		t.Errorf("blank name: got %v", err)
	}
}

func TestService_Update_Partial(t *testing.T) {
	svc := NewService(newMockRepo())
	st, err := svc.Create(context.Background(), CreateInput{StudentNumber: "S-1", FullName: "A"})
	if err != nil {
		t.Fatal(err)
	}

	grade := "5B"
	updated, err := svc.Update(context.Background(), st.ID, UpdateInput{Grade: &grade})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Grade == nil || *updated.Grade != "5B" {
		t.Error("grade not applied")
	}
	if updated.FullName != "A" || updated.StudentNumber != "S-1" {
		t.Error("untouched fields must be preserved")
	}
}

func TestService_GetByNumber(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Create(context.Background(), CreateInput{StudentNumber: "S-7", FullName: "A"}); err != nil {
		t.Fatal(err)
	}
	st, err := svc.GetByNumber(context.Background(), " S-7 ")
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if st.StudentNumber != "S-7" {
		t.Errorf("got %+v", st)
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
