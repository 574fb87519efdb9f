package records

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicare/clinic-api/internal/platform/auth"
	"github.com/medicare/clinic-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	staff.GET("/records", h.ListRecords)
	staff.GET("/records/student/:id", h.ListStudentRecords)
	staff.GET("/records/:id", h.GetRecord)
	staff.POST("/records", h.CreateRecord)
	staff.PUT("/records/:id", h.UpdateRecord)
	staff.GET("/stats/diseases/:disease", h.DiseaseStats)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.DELETE("/records/:id", h.DeleteRecord)
}

func (h *Handler) CreateRecord(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actorID := auth.UserIDFromContext(c.Request().Context())
	rec, err := h.svc.Create(c.Request().Context(), in, actorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListRecords(c echo.Context) error {
	filter := ListFilter{Disease: c.QueryParam("disease")}
	if raw := c.QueryParam("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid student_id")
		}
		filter.StudentID = &id
	}
	if from, ok, err := parseDateParam(c, "from"); err != nil {
		return err
	} else if ok {
		filter.From = &from
	}
	if to, ok, err := parseDateParam(c, "to"); err != nil {
		return err
	} else if ok {
		filter.To = &to
	}

	p := pagination.FromContext(c)
	recs, total, err := h.svc.List(c.Request().Context(), filter, p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, p.Limit, p.Offset))
}

func (h *Handler) ListStudentRecords(c echo.Context) error {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid student id")
	}
	p := pagination.FromContext(c)
	recs, total, err := h.svc.List(c.Request().Context(), ListFilter{StudentID: &studentID}, p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DiseaseStats(c echo.Context) error {
	var from, to *time.Time
	if v, ok, err := parseDateParam(c, "from"); err != nil {
		return err
	} else if ok {
		from = &v
	}
	if v, ok, err := parseDateParam(c, "to"); err != nil {
		return err
	} else if ok {
		to = &v
	}

	buckets, err := h.svc.Stats(c.Request().Context(), c.Param("disease"), c.QueryParam("interval"), from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"disease": c.Param("disease"),
		"buckets": buckets,
	})
}

func parseDateParam(c echo.Context, name string) (time.Time, bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return time.Time{}, false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" date")
		}
	}
	return t, true, nil
}

func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "medical record not found")
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
