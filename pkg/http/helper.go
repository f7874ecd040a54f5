package http

import (
	"net/http"
	"strconv"

	apperrors "fleetalloc/pkg/errors"
)

// ExtractSkipLimit parses the skip/limit query parameters without
// normalizing them; callers apply their configured defaults and caps.
func ExtractSkipLimit(r *http.Request) (int64, int64, error) {
	query := r.URL.Query()

	var skip int64
	if s := query.Get("skip"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			return 0, 0, apperrors.InvalidInput("invalid skip parameter: " + s)
		}
		skip = v
	}

	var limit int64
	if s := query.Get("limit"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	return skip, limit, nil
}

// ExtractOptionalInt parses an optional integer query parameter,
// returning nil when absent.
func ExtractOptionalInt(r *http.Request, name string) (*int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return &v, nil
}
