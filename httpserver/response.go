package httpserver

import (
	"fmt"
	"strconv"

	"kino/errs"

	"github.com/labstack/echo/v4"
)

const (
	successMessage   = "OK"
	defaultErrorCode = "100500"
)

// errorCodes are the envelope codes of application errors. Other errors use 100 plus the HTTP status.
var errorCodes = map[string]string{
	errs.EINVALID:        "100010",
	errs.ENOTFOUND:       "100404",
	errs.ECONFLICT:       "100409",
	errs.EUNAUTHORIZED:   "100401",
	errs.EFORBIDDEN:      "100403",
	errs.ENOTIMPLEMENTED: "100501",
	errs.EUNAVAILABLE:    "100503",
}

type APIResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Result  interface{} `json:"result,omitempty"`
	Info    string      `json:"info,omitempty"`
}

func writeSuccess(c echo.Context, status int, result interface{}) error {
	return c.JSON(status, APIResponse{
		Code:    strconv.Itoa(status),
		Message: successMessage,
		Result:  result,
	})
}

// writeList wraps a list in {"data": [...]} so an empty result still has a body.
func writeList(c echo.Context, status int, data interface{}) error {
	return writeSuccess(c, status, map[string]interface{}{
		"data": data,
	})
}

func writeError(c echo.Context, status int, message, info string, err error) error {
	return c.JSON(status, APIResponse{
		Code:    errorCode(err, status),
		Message: message,
		Info:    info,
	})
}

func errorCode(err error, status int) string {
	if code, ok := errorCodes[errs.ErrorCode(err)]; ok {
		return code
	}
	if status != 0 {
		return fmt.Sprintf("100%03d", status)
	}
	return defaultErrorCode
}
