package dto

import "net/http"

// StatusCategory is the coarse outcome bucket for an HTTP status code.
type StatusCategory string

const (
	Informational StatusCategory = "informational"
	Success       StatusCategory = "success"
	Redirect      StatusCategory = "redirect"
	NotAuthorized StatusCategory = "not_authorized"
	NotFound      StatusCategory = "not_found"
	ClientError   StatusCategory = "client_error"
	ServerError   StatusCategory = "server_error"
	UnknownStatus StatusCategory = "unknown"
)

// Classify maps a status code to its category. 401 and 404 are named
// cases and must be matched before the generic 4xx bucket.
func Classify(status int) StatusCategory {
	switch {
	case status >= 100 && status < 200:
		return Informational
	case status >= 200 && status < 300:
		return Success
	case status >= 300 && status < 400:
		return Redirect
	case status == http.StatusUnauthorized:
		return NotAuthorized
	case status == http.StatusNotFound:
		return NotFound
	case status >= 400 && status < 500:
		return ClientError
	case status >= 500 && status < 600:
		return ServerError
	default:
		return UnknownStatus
	}
}
