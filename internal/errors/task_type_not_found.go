package errors

import "net/http"

var ErrTaskTypeNotFound = &Exception{
	Message:    "task type not found",
	StatusCode: http.StatusUnprocessableEntity,
}
