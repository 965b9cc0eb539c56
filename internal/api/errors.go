package api

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/dense/pkg/dense"
)

// statusFor maps store and codec errors onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrDatasetNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, "not_found_error"
	case errors.Is(err, dense.ErrRowRange):
		return http.StatusNotFound, "row_range_error"
	case errors.Is(err, dense.ErrCorruptFile):
		return http.StatusUnprocessableEntity, "format_error"
	case errors.Is(err, dense.ErrInvalidLayout), errors.Is(err, dense.ErrInvalidWidth),
		errors.Is(err, dense.ErrInvalidExampleSize):
		return http.StatusInternalServerError, "layout_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType},
	})
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeErr(c *echo.Context, err error) error {
	status, typ := statusFor(err)
	return writeError(c, status, typ, err.Error())
}
