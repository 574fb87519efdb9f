package alert

import (
	"errors"
	"net/http"

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
	staff.GET("/alerts", h.ListAlerts)
	staff.GET("/alerts/:id", h.GetAlert)
	staff.POST("/alerts/:id/read", h.MarkRead)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/alerts/:id/resolve", h.ResolveAlert)
}

func (h *Handler) ListAlerts(c echo.Context) error {
	filter := ListFilter{
		UnreadOnly:     c.QueryParam("unread") == "true",
		UnresolvedOnly: c.QueryParam("unresolved") == "true",
		AlertType:      c.QueryParam("alert_type"),
	}
	p := pagination.FromContext(c)
	alerts, total, err := h.svc.List(c.Request().Context(), filter, p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(alerts, total, p.Limit, p.Offset))
}

func (h *Handler) GetAlert(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.MarkRead(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type resolveRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (h *Handler) ResolveAlert(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actorID := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.Resolve(c.Request().Context(), id, actorID, req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "alert not found")
	case errors.Is(err, ErrAlreadyResolved):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
