package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/alnah/go-render/internal/chrome"
)

// errorBody is the JSON shape of every failure response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, errorBody{Error: kind, Message: message})
}

// renderFailure maps renderer errors to status codes. Navigation failures
// keep the browser's net::ERR_* text so clients can classify them.
func renderFailure(c echo.Context, err error) error {
	var nav *chrome.NavigationError
	switch {
	case errors.As(err, &nav):
		return writeError(c, http.StatusInternalServerError, "NetError", "net::"+strings.TrimPrefix(nav.Message(), "net::"))
	case errors.Is(err, chrome.ErrUnsupportedFormat):
		return writeError(c, http.StatusUnprocessableEntity, "UnsupportedFormat", err.Error())
	case errors.Is(err, chrome.ErrInvalidOption):
		return writeError(c, http.StatusBadRequest, "InvalidOption", err.Error())
	case errors.Is(err, context.DeadlineExceeded), strings.Contains(err.Error(), context.DeadlineExceeded.Error()):
		return writeError(c, http.StatusGatewayTimeout, "TimeoutError", err.Error())
	case errors.Is(err, chrome.ErrBrowserConnect), errors.Is(err, chrome.ErrClosed):
		return writeError(c, http.StatusServiceUnavailable, "BrowserError", err.Error())
	}
	return writeError(c, http.StatusInternalServerError, "RenderError", err.Error())
}

func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

// validationMessage joins field errors as "url is required; format must be
// one of ...".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		case "url":
			msgs = append(msgs, field+" must be a URL")
		default:
			msgs = append(msgs, field+" fails "+fe.Tag())
		}
	}
	return strings.Join(msgs, "; ")
}
