package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/domain"
	"blogapi/internal/query"
)

// writeError writes the envelope for err and logs anything that maps to a 5xx.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if status := helpers.WriteError(w, err); status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}

// listParams parses the list query string. In strict mode any filter or order token
// the schema cannot use is a malformed query instead of being dropped.
func listParams(r *http.Request, schema query.Schema, strict bool) (domain.QueryParams, error) {
	params, err := helpers.ParseQueryParams(r)
	if err != nil {
		return params, err
	}
	if strict {
		if rejected := schema.Rejected(params); len(rejected) > 0 {
			return params, fmt.Errorf("%w: unusable tokens: %s", domain.ErrMalformedQuery, strings.Join(rejected, ", "))
		}
	}
	return params, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
