package outcome

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Measures: any authenticated staff role can read; the service gates
	// visibility by access level and mutation by ownership.
	staff := api.Group("", auth.RequireStaff())
	staff.GET("/outcome-measures", h.ListMeasures)
	staff.GET("/outcome-measures/sharable", h.ListSharableMeasures)
	staff.POST("/outcome-measures", h.CreateMeasure)
	staff.GET("/outcome-measures/:id", h.GetMeasure)
	staff.PUT("/outcome-measures/:id", h.UpdateMeasure)
	staff.DELETE("/outcome-measures/:id", h.DeleteMeasure)

	// Responses – clients submit against their own file; reads are checked
	// per-response in the service.
	api.POST("/client-files/:id/outcome-response", h.SubmitResponse)
	api.GET("/outcome-responses/:id", h.GetResponse)
}

func (h *Handler) ListMeasures(c echo.Context) error {
	requesterID, err := requesterID(c)
	if err != nil {
		return err
	}
	measures, err := h.svc.ListMeasures(c.Request().Context(), requesterID)
	if err != nil {
		return httpError(err)
	}
	if measures == nil {
		measures = []*Measure{}
	}
	return c.JSON(http.StatusOK, measures)
}

func (h *Handler) ListSharableMeasures(c echo.Context) error {
	measures, err := h.svc.ListSharableMeasures(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if measures == nil {
		measures = []*Measure{}
	}
	return c.JSON(http.StatusOK, measures)
}

func (h *Handler) CreateMeasure(c echo.Context) error {
	requesterID, err := requesterID(c)
	if err != nil {
		return err
	}
	var m Measure
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMeasure(c.Request().Context(), &m, requesterID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMeasure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMeasure(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateMeasure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	requesterID, err := requesterID(c)
	if err != nil {
		return err
	}
	var patch MeasurePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.UpdateMeasure(c.Request().Context(), id, &patch, requesterID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMeasure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	requesterID, err := requesterID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMeasure(c.Request().Context(), id, requesterID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type submitResponseRequest struct {
	Answers []Answer `json:"answers"`
}

func (h *Handler) SubmitResponse(c echo.Context) error {
	clientFileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	requesterID, err := requesterID(c)
	if err != nil {
		return err
	}
	var req submitResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.SubmitResponse(c.Request().Context(), clientFileID, req.Answers, requesterID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetResponse(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	requesterID, err := requesterID(c)
	if err != nil {
		return err
	}
	resp, err := h.svc.GetResponse(c.Request().Context(), id, requesterID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func requesterID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user identity")
	}
	return id, nil
}

// httpError maps service errors onto HTTP status codes.
func httpError(err error) error {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		forbidden  *ForbiddenError
		badRequest *BadRequestError
	)
	switch {
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	case errors.As(err, &badRequest):
		return echo.NewHTTPError(http.StatusBadRequest, badRequest.Error())
	case errors.As(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound.Error())
	case errors.As(err, &forbidden):
		return echo.NewHTTPError(http.StatusForbidden, forbidden.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
