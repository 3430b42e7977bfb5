package errors

import "net/http"

var ErrUnauthorized = &Exception{
	Message:    "missing or invalid bearer token",
	StatusCode: http.StatusUnauthorized,
}
