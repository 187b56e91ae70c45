package errors

import (
	"net/http"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeNotImplemented     ErrorCode = "COMMON_010"
)

// Simulation Module Error Codes
const (
	// ErrCodeUnknownCellLine marks a catalog lookup for a name that is not
	// registered.  Surfaced as 404: a user input error, never a server fault.
	ErrCodeUnknownCellLine ErrorCode = "SIM_001"

	// ErrCodeInvalidParameters marks malformed or out-of-range experiment,
	// environment, or treatment fields.  Detected before integration begins.
	ErrCodeInvalidParameters ErrorCode = "SIM_002"

	// ErrCodeNumericalInstability marks integrator divergence: a non-finite
	// phase population, exhaustion of the step budget, or a caller timeout.
	ErrCodeNumericalInstability ErrorCode = "SIM_003"

	// ErrCodePredictorUnavailable marks a failure of the response-predictor
	// collaborator.  Attached to otherwise-successful results as a warning;
	// it is fatal only for the dedicated /predict endpoints.
	ErrCodePredictorUnavailable ErrorCode = "SIM_004"

	// ErrCodeCatalogLoadFailed marks a failure to parse the cell-line
	// catalog overlay file at startup.
	ErrCodeCatalogLoadFailed ErrorCode = "SIM_005"

	// ErrCodeUnknownDrug marks a treatment referencing a drug class the
	// selected cell line carries no sensitivity profile for.
	ErrCodeUnknownDrug ErrorCode = "SIM_006"
)

// Aliases used at call sites that predate the split into common/simulation codes.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeUnknownCellLine:      http.StatusNotFound,
	ErrCodeInvalidParameters:    http.StatusBadRequest,
	ErrCodeNumericalInstability: http.StatusInternalServerError,
	ErrCodePredictorUnavailable: http.StatusServiceUnavailable,
	ErrCodeCatalogLoadFailed:    http.StatusInternalServerError,
	ErrCodeUnknownDrug:          http.StatusBadRequest,
}

// HTTPStatus returns the HTTP status code mapped to c, defaulting to 500 for
// unmapped codes so that an unclassified failure is never reported as success.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := ErrorCodeHTTPStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Kind returns the public taxonomy name for c, used in the "kind" field of
// API error envelopes.  Codes without a dedicated name report "Internal".
func (c ErrorCode) Kind() string {
	switch c {
	case ErrCodeUnknownCellLine:
		return "UnknownCellLine"
	case ErrCodeInvalidParameters, ErrCodeBadRequest, ErrCodeValidation, ErrCodeUnknownDrug:
		return "InvalidParameters"
	case ErrCodeNumericalInstability, ErrCodeTimeout:
		return "NumericalInstability"
	case ErrCodePredictorUnavailable:
		return "PredictorUnavailable"
	case ErrCodeNotFound:
		return "NotFound"
	default:
		return "Internal"
	}
}
