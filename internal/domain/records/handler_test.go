package records

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicare/clinic-api/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(NewService(newMockRepo(), nil)), echo.New()
}

func withActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, actor))
}

func TestHandler_CreateRecord(t *testing.T) {
	h, e := newTestHandler()
	body := `{"student_id":"` + uuid.NewString() + `","disease_category":"Influenza","severity":"mild","symptoms":"fever"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = withActor(req, "nurse-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateRecord(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_CreateRecord_Validation(t *testing.T) {
	h, e := newTestHandler()
	body := `{"student_id":"` + uuid.NewString() + `","disease_category":"Influenza","severity":"catastrophic","symptoms":"fever"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = withActor(req, "nurse-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.CreateRecord(c)
	if err == nil {
		t.Fatal("expected validation error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetRecord_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	err := h.GetRecord(c)
	if err == nil {
		t.Fatal("expected not found error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_ListRecords_BadStudentID(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?student_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.ListRecords(c)
	if err == nil {
		t.Fatal("expected bad request error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_ListRecords(t *testing.T) {
	h, e := newTestHandler()
	if _, err := h.svc.Create(context.Background(), validInput(), "nurse-1"); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/?disease=influenza&from=2020-01-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ListRecords(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_ListStudentRecords(t *testing.T) {
	h, e := newTestHandler()
	in := validInput()
	if _, err := h.svc.Create(context.Background(), in, "nurse-1"); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(in.StudentID.String())
	if err := h.ListStudentRecords(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_DiseaseStats(t *testing.T) {
	h, e := newTestHandler()
	if _, err := h.svc.Create(context.Background(), validInput(), "nurse-1"); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/?interval=week", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("disease")
	c.SetParamValues("Influenza")
	if err := h.DiseaseStats(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_DeleteRecord(t *testing.T) {
	h, e := newTestHandler()
	created, err := h.svc.Create(context.Background(), validInput(), "nurse-1")
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	if err := h.DeleteRecord(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
