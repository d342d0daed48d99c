package helpers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/domain"
)

// ParseQueryParams reads start, step, filter.<op>[] and order[] from the query string.
// Keys are accepted with or without the trailing "[]".
// A non-integer or negative start or step fails with domain.ErrMalformedQuery.
func ParseQueryParams(r *http.Request) (domain.QueryParams, error) {
	q := r.URL.Query()
	var (
		params domain.QueryParams
		err    error
	)
	if params.Start, err = optionalCount(q, "start"); err != nil {
		return domain.QueryParams{}, err
	}
	if params.Step, err = optionalCount(q, "step"); err != nil {
		return domain.QueryParams{}, err
	}
	params.Filter = domain.Filters{
		EQ:      list(q, "filter.eq"),
		GE:      list(q, "filter.ge"),
		LE:      list(q, "filter.le"),
		Like:    list(q, "filter.like"),
		Between: list(q, "filter.between"),
	}
	params.Order = list(q, "order")
	return params, nil
}

func list(q url.Values, key string) []string {
	out := append([]string{}, q[key+"[]"]...)
	out = append(out, q[key]...)
	if len(out) == 0 {
		return nil
	}
	return out
}

func optionalCount(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrMalformedQuery, key)
	}
	return &n, nil
}

// PathID parses the named chi URL parameter as a positive integer id.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrMalformedQuery, name)
	}
	return id, nil
}
