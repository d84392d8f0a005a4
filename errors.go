package upgradelistsdk

import (
	"fmt"
	"net/http"
)

// HttpError is returned when an upstream endpoint answers with anything but 200.
type HttpError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("unexpected status code %d (%s) from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// ParseError is returned when an upstream body is not the JSON shape we expect.
type ParseError struct {
	Reason string
	Body   string
}

func (e *ParseError) Error() string {
	return "unable to parse response: " + e.Reason
}

// MissingFieldError names the dotted path of a field that is absent or malformed.
type MissingFieldError struct {
	Path   string
	Reason string
}

func (e *MissingFieldError) Error() string {
	if e.Reason == "" {
		return "missing field: " + e.Path
	}
	return fmt.Sprintf("missing or malformed field %s: %s", e.Path, e.Reason)
}

// ValidationError is returned before any network call when a query field is empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}
