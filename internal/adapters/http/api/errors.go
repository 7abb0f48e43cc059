package api

import (
	"errors"
	"net/http"

	"github.com/okian/apexstats/internal/adapters/repository"
	"github.com/okian/apexstats/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNoData     = errors.New("no observations match the given filters")
)

// Error codes carried in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeInvalidFilter    = "invalid_filter"
	codeInvalidField     = "invalid_field"
	codeNoData           = "no_data"
	codeStore            = "store_error"
	codeInternal         = "internal_error"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
)

// classify maps a service error onto a status and response code.
func classify(err error) (int, string) {
	var perr *model.ParseError
	switch {
	case errors.As(err, &perr):
		return http.StatusBadRequest, codeInvalidFilter
	case errors.Is(err, model.ErrInvalidField):
		return http.StatusBadRequest, codeInvalidField
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, repository.ErrIO):
		return http.StatusInternalServerError, codeStore
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
