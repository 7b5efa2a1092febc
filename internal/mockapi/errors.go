package mockapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    *string `json:"code"`
}

// writeError sends the platform's {"error":{...}} envelope.
func writeError(c echo.Context, status int, errType, message, param string) error {
	body := errorBody{Message: message, Type: errType}
	if param != "" {
		body.Param = &param
	}
	return c.JSON(status, map[string]errorBody{"error": body})
}

func invalidRequest(c echo.Context, param, format string, args ...any) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", fmt.Sprintf(format, args...), param)
}

func notFound(c echo.Context, kind, id string) error {
	return writeError(c, http.StatusNotFound, "invalid_request_error", fmt.Sprintf("No %s found with id '%s'.", kind, id), "")
}

// errorHandler renders echo errors (unknown routes, body limits, panics)
// in the platform envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	}
	errType := "server_error"
	if status < http.StatusInternalServerError {
		errType = "invalid_request_error"
	}
	_ = writeError(c, status, errType, message, "")
}
