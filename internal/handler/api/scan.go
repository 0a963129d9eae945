package api

import (
	"strings"

	"TokenRadar/internal/domain/models"
	xhttp "TokenRadar/pkg/http"
	xlogger "TokenRadar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Scan runs the full pipeline and returns the batch as JSON. An empty batch
// is a 200 with empty buckets, not an error.
func (h *Handler) Scan(c echo.Context) error {
	batch, err := h.runner.Run(c.Request().Context())
	if err != nil {
		h.log.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("scan failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, batch)
}

// SourceTop returns one adapter's current view, normalized but unfiltered.
func (h *Handler) SourceTop(c echo.Context) error {
	req := &models.SourceTopRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	obs, err := h.runner.Source(c.Request().Context(), strings.ToLower(req.Source), req.Limit)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown source %q", req.Source).WithError(err))
	}
	return xhttp.SuccessResponse(c, obs)
}
