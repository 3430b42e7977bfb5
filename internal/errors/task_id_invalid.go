package errors

import "net/http"

var ErrTaskIDInvalid = &Exception{
	Message:    "task id must be a positive integer",
	StatusCode: http.StatusBadRequest,
}
