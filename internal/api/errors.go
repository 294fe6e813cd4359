package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Error codes returned by the API.
const (
	CodeNotFound         = "not_found"
	CodeUnauthenticated  = "unauthenticated"
	CodePermissionDenied = "permission_denied"
	CodeInvalidArgument  = "invalid_argument"
	CodeUnavailable      = "unavailable"
	CodeInternal         = "internal"
	CodeUnknown          = "unknown"
)

// Error is a failed API call.
type Error struct {
	// Code is the machine-readable error code, e.g. "not_found".
	Code string
	// Message is the server's human-readable description.
	Message string
	// HTTPStatus is the response status code.
	HTTPStatus int
	// Procedure is the called RPC, e.g. "pyrite.v1.teams.v1.TeamService/FindOneTeam".
	Procedure string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed: %s", e.Procedure, strings.ReplaceAll(e.Code, "_", " "))
}

// IsNotFound reports whether err is an API not_found error.
//
// Example:
//
//	team, err := client.FindOneTeam(ctx, id)
//	if api.IsNotFound(err) {
//	    return fmt.Errorf("team %s does not exist", id)
//	}
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsUnauthenticated reports whether the API rejected the credentials.
func IsUnauthenticated(err error) bool {
	return hasCode(err, CodeUnauthenticated)
}

func hasCode(err error, code string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseError builds an Error from a non-2xx response body of the form
// {"code": "...", "message": "..."}. Bodies that do not match fall back to a
// code derived from the HTTP status.
func parseError(procedure string, status int, body []byte) *Error {
	apiErr := &Error{
		Code:       codeFromStatus(status),
		HTTPStatus: status,
		Procedure:  procedure,
	}

	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)
		if code := result.Get("code"); code.Type == gjson.String && code.String() != "" {
			apiErr.Code = code.String()
		}
		apiErr.Message = result.Get("message").String()
	}

	return apiErr
}

func codeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidArgument
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodePermissionDenied
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return CodeUnavailable
	case http.StatusInternalServerError:
		return CodeInternal
	default:
		return CodeUnknown
	}
}
