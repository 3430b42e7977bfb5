package errors

import "net/http"

var ErrTaskClosed = &Exception{
	Message:    "task is already completed or abandoned",
	StatusCode: http.StatusConflict,
}
