package errors

import "net/http"

var ErrTaskUnavailable = &Exception{
	Message:    "task is not available to claim",
	StatusCode: http.StatusConflict,
}
