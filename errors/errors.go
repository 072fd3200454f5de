package errors

import "errors"

// New returns an error that formats as the given text.
var New = errors.New

// Is reports whether any error in err's chain matches target.
var Is = errors.Is

// known authorization endpoint errors
var (
	ErrInvalidRequest          = errors.New("invalid_request")
	ErrUnauthorizedClient      = errors.New("unauthorized_client")
	ErrAccessDenied            = errors.New("access_denied")
	ErrUnsupportedResponseType = errors.New("unsupported_response_type")
	ErrInvalidScope            = errors.New("invalid_scope")
	ErrInvalidGrant            = errors.New("invalid_grant")
	ErrInvalidClient           = errors.New("invalid_client")
	ErrServerError             = errors.New("server_error")
	ErrNoClientID              = errors.New("no_client_id")
)

// Descriptions error description
var Descriptions = map[error]string{
	ErrInvalidRequest:          "The request is missing a required parameter, includes an invalid parameter value, or is otherwise malformed",
	ErrUnauthorizedClient:      "The client is not registered or is not authorized to use this redirection URI",
	ErrAccessDenied:            "The resource owner or authorization server denied the request",
	ErrUnsupportedResponseType: "The authorization server does not support obtaining an authorization code using this method",
	ErrInvalidScope:            "The requested scope is invalid, unknown, or malformed",
	ErrInvalidGrant:            "The provided authorization grant is invalid, expired or revoked",
	ErrInvalidClient:           "Client authentication failed",
	ErrServerError:             "The authorization server encountered an unexpected condition that prevented it from fulfilling the request",
	ErrNoClientID:              "The request names no registered client to render a consent form for",
}

// StatusCodes response error HTTP status code
var StatusCodes = map[error]int{
	ErrInvalidRequest:          400,
	ErrUnauthorizedClient:      401,
	ErrAccessDenied:            403,
	ErrUnsupportedResponseType: 400,
	ErrInvalidScope:            400,
	ErrInvalidGrant:            401,
	ErrInvalidClient:           401,
	ErrServerError:             500,
	ErrNoClientID:              400,
}
