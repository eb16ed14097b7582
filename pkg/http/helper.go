package http

import (
	"net/http"
	"strconv"
	"time"

	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
)

// HeaderProjectID carries the caller's tenant identity. Verifying it is the
// job of an upstream gateway; services only scope data by it.
const HeaderProjectID = "X-Project-ID"

func ExtractProjectID(r *http.Request) (string, error) {
	projectID := r.Header.Get(HeaderProjectID)
	if projectID == "" {
		return "", apperrors.InvalidInput("missing " + HeaderProjectID + " header")
	}
	return projectID, nil
}

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// ExtractTimeParam parses an optional RFC3339 query parameter, returning nil
// when absent.
func ExtractTimeParam(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter, expected RFC3339: " + s)
	}
	return &t, nil
}
