// Package permission exposes the batch permission evaluation endpoints of
// the plugin backend.
package permission

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/sstasik645/backstage/core"
)

var tracer = otel.Tracer("permission")

type Handler interface {
	ApplyConditions(c echo.Context) error
	Metadata(c echo.Context) error
}

type handler struct {
	service core.PermissionService
}

func NewHandler(service core.PermissionService) Handler {
	return &handler{service}
}

// ApplyConditions resolves a batch of conditional authorization requests.
func (h handler) ApplyConditions(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Permission.Handler.ApplyConditions")
	defer span.End()

	var request struct {
		Items []core.RequestItem `json:"items"`
	}
	err := c.Bind(&request)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request", "message": "invalid request body: " + err.Error()})
	}

	verdicts, err := h.service.ApplyConditions(ctx, request.Items)
	if err != nil {
		span.RecordError(err)

		var invalid core.ErrorInvalid
		if errors.As(err, &invalid) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request", "message": invalid.Error()})
		}
		var unsupported core.ErrorUnsupported
		if errors.As(err, &unsupported) {
			return c.JSON(http.StatusNotImplemented, echo.Map{"error": "Not Implemented", "message": unsupported.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"items": verdicts})
}

// Metadata reports the permissions and rules this backend exposes.
func (h handler) Metadata(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Permission.Handler.Metadata")
	defer span.End()

	metadata, err := h.service.Metadata(ctx)
	if err != nil {
		span.RecordError(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(http.StatusOK, metadata)
}
