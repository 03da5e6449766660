package rest

import (
	"net/http"
	"strings"
)

// classifyStatus maps a non-2xx status to an error kind. Credential
// failures are split out of the 4xx band first, and 429 stays retryable
// as a server-side condition.
func classifyStatus(status int, message string) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden && isCredentialMessage(message):
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindServer
	case status >= 400 && status < 500:
		return KindClient
	default:
		return KindServer
	}
}

func isCredentialMessage(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "token") ||
		strings.Contains(m, "credential") ||
		strings.Contains(m, "expired") ||
		strings.Contains(m, "unauthorized") ||
		strings.Contains(m, "not authorized")
}

// Classify reports the kind of an arbitrary error. Errors this package did
// not raise have no status or validation context, so they default to the
// retryable transport bucket.
func Classify(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindTransport
}
