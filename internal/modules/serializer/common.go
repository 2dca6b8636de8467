package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the error envelope. Successful reads return the resource itself.
type Response struct {
	Code   int               `json:"code"`
	Data   interface{}       `json:"data,omitempty"`
	Msg    string            `json:"msg"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// CheckLogin
func CheckLogin() Response {
	return Response{
		Code: http.StatusUnauthorized,
		Msg:  "please login first",
	}
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "storage error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// ValidationErr reports per-field messages keyed by json field name.
func ValidationErr(fields map[string]string) Response {
	return Response{
		Code:   http.StatusBadRequest,
		Msg:    "validation failed",
		Fields: fields,
	}
}

// NotFound
func NotFound(msg string) Response {
	if msg == "" {
		msg = "not found"
	}
	return Err(http.StatusNotFound, msg, nil)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

// Forbidden
func Forbidden(msg string) Response {
	if msg == "" {
		msg = "admin access required"
	}
	return Err(http.StatusForbidden, msg, nil)
}

// TooManyRequests
func TooManyRequests(msg string) Response {
	if msg == "" {
		msg = "too many requests, try again later"
	}
	return Err(http.StatusTooManyRequests, msg, nil)
}
