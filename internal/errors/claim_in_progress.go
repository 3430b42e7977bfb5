package errors

import "net/http"

var ErrClaimInProgress = &Exception{
	Message:    "task is being claimed by another user",
	StatusCode: http.StatusConflict,
}
