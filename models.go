package upgradelistsdk

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const FlightDateLayout = "2006-01-02"

type (
	// FlightQuery identifies one flight leg as the operator typed it.
	FlightQuery struct {
		FlightNumber      string `json:"flightNumber" yaml:"flightNumber"`
		FlightDate        string `json:"flightDate" yaml:"flightDate"`
		OriginAirportCode string `json:"fromAirportCode" yaml:"fromAirportCode"`
	}

	// ResponseError is what front ends show or serialize for a failed query.
	ResponseError struct {
		StatusCode         int    `json:"statusCode"`
		ErrorMessage       string `json:"errorMessage"`
		ClientErrorMessage string `json:"clientErrorMessage"`
	}
)

var ErrorCodeWithMessage = map[int]string{
	http.StatusBadRequest:          "Please fill in flight number, date and departure airport.",
	http.StatusUnauthorized:        "Sign in to view the upgrade list.",
	http.StatusConflict:            "A query is already running, please wait.",
	http.StatusBadGateway:          "Unable to fetch data from the airline.",
	http.StatusGatewayTimeout:      "The airline did not answer in time.",
	http.StatusInternalServerError: "Something went wrong.",
}

// Normalize trims every field and upper-cases the airport code.
func (q FlightQuery) Normalize() FlightQuery {
	return FlightQuery{
		FlightNumber:      strings.TrimSpace(q.FlightNumber),
		FlightDate:        strings.TrimSpace(q.FlightDate),
		OriginAirportCode: strings.ToUpper(strings.TrimSpace(q.OriginAirportCode)),
	}
}

// Validate only checks that the fields are non-empty.
func (q FlightQuery) Validate() error {
	q = q.Normalize()
	switch {
	case q.FlightNumber == "":
		return &ValidationError{Field: "flightNumber"}
	case q.FlightDate == "":
		return &ValidationError{Field: "flightDate"}
	case q.OriginAirportCode == "":
		return &ValidationError{Field: "fromAirportCode"}
	}
	return nil
}

// NewResponseError classifies err for display.
func NewResponseError(err error) ResponseError {
	var (
		httpErr       *HttpError
		parseErr      *ParseError
		missingErr    *MissingFieldError
		validationErr *ValidationError
		response      = ResponseError{ErrorMessage: err.Error()}
	)

	switch {
	case errors.As(err, &validationErr):
		response.StatusCode = http.StatusBadRequest
	case errors.As(err, &httpErr), errors.As(err, &parseErr), errors.As(err, &missingErr):
		response.StatusCode = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		response.StatusCode = http.StatusGatewayTimeout
	default:
		response.StatusCode = http.StatusInternalServerError
	}
	response.ClientErrorMessage = ErrorCodeWithMessage[response.StatusCode]

	return response
}
