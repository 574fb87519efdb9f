package surveillance

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/clinic-api/internal/platform/auth"
)

type Handler struct {
	detector *Detector
}

func NewHandler(detector *Detector) *Handler {
	return &Handler{detector: detector}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/surveillance/run", h.RunChecks)
}

// RunChecks triggers a full sweep over every active threshold. Meant for
// admins and the nightly scheduler.
func (h *Handler) RunChecks(c echo.Context) error {
	summary, err := h.detector.RunAllChecks(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}
