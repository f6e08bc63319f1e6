package clientfile

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/auth"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireStaff())
	staff.POST("/client-files", h.Create)
	staff.GET("/client-files", h.List)
	staff.PUT("/client-files/:id/measure", h.AssignMeasure)

	// A client reads only its own files; staff read any. The service side of
	// the check lives in Get.
	api.GET("/client-files/:id", h.Get)
	api.GET("/clients/:client_id/files", h.ListByClient)
}

func (h *Handler) Create(c echo.Context) error {
	var f ClientFile
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "client file not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !canReadFile(c, f) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only access your own files")
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	files, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(files, total, p.Limit, p.Offset))
}

func (h *Handler) ListByClient(c echo.Context) error {
	clientID, err := uuid.Parse(c.Param("client_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}
	if !auth.StaffProfileFromContext(c.Request().Context()) &&
		auth.ClientIDFromContext(c.Request().Context()) != clientID.String() {
		return echo.NewHTTPError(http.StatusForbidden, "You can only access your own files")
	}
	files, err := h.svc.ListByClient(c.Request().Context(), clientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if files == nil {
		files = []*ClientFile{}
	}
	return c.JSON(http.StatusOK, files)
}

type assignMeasureRequest struct {
	MeasureID uuid.UUID `json:"measure_id"`
}

func (h *Handler) AssignMeasure(c echo.Context) error {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req assignMeasureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MeasureID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "measure_id is required")
	}
	if err := h.svc.AssignMeasure(c.Request().Context(), fileID, req.MeasureID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "client file not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func canReadFile(c echo.Context, f *ClientFile) bool {
	ctx := c.Request().Context()
	if auth.StaffProfileFromContext(ctx) {
		return true
	}
	return auth.ClientIDFromContext(ctx) == f.ClientID.String()
}
