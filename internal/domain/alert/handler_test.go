package alert

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
	return NewHandler(NewService(newMockRepo())), echo.New()
}

func seedAlert(t *testing.T, h *Handler) *Alert {
	t.Helper()
	a, err := h.svc.Create(context.Background(), CreateInput{
		AlertType:      TypeOutbreakSuspected,
		Severity:       SeverityHigh,
		Title:          "Suspected outbreak: Influenza",
		Message:        "7 cases in the last 7 days (threshold 5)",
		RelatedDisease: strPtr("Influenza"),
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestHandler_ListAlerts(t *testing.T) {
	h, e := newTestHandler()
	seedAlert(t, h)

	req := httptest.NewRequest(http.MethodGet, "/?unresolved=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ListAlerts(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_ListAlerts_BadTypeFilter(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?alert_type=BOGUS", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.ListAlerts(c)
	if err == nil {
		t.Fatal("expected validation error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetAlert_NotFound(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	err := h.GetAlert(c)
	if err == nil {
		t.Fatal("expected not found error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_MarkRead(t *testing.T) {
	h, e := newTestHandler()
	a := seedAlert(t, h)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.MarkRead(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_ResolveAlert(t *testing.T) {
	h, e := newTestHandler()
	a := seedAlert(t, h)

	body := `{"notes":"vaccination campaign started"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "admin-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	if err := h.ResolveAlert(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_ResolveAlert_Twice(t *testing.T) {
	h, e := newTestHandler()
	a := seedAlert(t, h)
	if _, err := h.svc.Resolve(context.Background(), a.ID, "admin-1", nil); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "admin-2"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())
	err := h.ResolveAlert(c)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}
