// Package resource implements the backing store integrators seed with the
// objects referenced by authorization requests.
package resource

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sstasik645/backstage/core"
)

type Handler interface {
	Get(c echo.Context) error
	Upsert(c echo.Context) error
	Delete(c echo.Context) error
}

type handler struct {
	service core.ResourceService
}

func NewHandler(service core.ResourceService) Handler {
	return &handler{service}
}

func (h handler) Get(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Resource.Handler.Get")
	defer span.End()

	ref := c.Param("ref")

	resource, err := h.service.Get(ctx, ref)
	if err != nil {
		span.RecordError(err)
		var notFound core.ErrorNotFound
		if errors.As(err, &notFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"status": "error", "message": "resource not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "content": resource})
}

func (h handler) Upsert(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Resource.Handler.Upsert")
	defer span.End()

	var resource core.Resource
	err := c.Bind(&resource)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request", "message": err.Error()})
	}
	resource.Ref = c.Param("ref")

	saved, err := h.service.Upsert(ctx, resource)
	if err != nil {
		span.RecordError(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "content": saved})
}

func (h handler) Delete(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Resource.Handler.Delete")
	defer span.End()

	ref := c.Param("ref")

	err := h.service.Delete(ctx, ref)
	if err != nil {
		span.RecordError(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
