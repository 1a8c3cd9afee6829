// internal/core/query_params.go
package core

import (
	"fmt"
	"net/url"
	"strconv"
)

// Default and limit constants for pagination
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ListQueryOptions holds parsed pagination parameters for list endpoints.
type ListQueryOptions struct {
	Limit  int
	Offset int
}

// DefaultListQueryOptions returns the first page with the default size.
func DefaultListQueryOptions() ListQueryOptions {
	return ListQueryOptions{Limit: DefaultLimit}
}

// ParseListQueryOptions extracts limit/offset from query parameters.
// Returns the parsed options and any validation error.
func ParseListQueryOptions(queryParams url.Values) (ListQueryOptions, error) {
	opts := DefaultListQueryOptions()

	if limitStr := queryParams.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return opts, fmt.Errorf("%w: 'limit' must be an integer", ErrValidation)
		}
		if limit < 1 {
			return opts, fmt.Errorf("%w: 'limit' must be at least 1", ErrValidation)
		}
		if limit > MaxLimit {
			return opts, fmt.Errorf("%w: 'limit' maximum is %d", ErrValidation, MaxLimit)
		}
		opts.Limit = limit
	}

	if offsetStr := queryParams.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return opts, fmt.Errorf("%w: 'offset' must be an integer", ErrValidation)
		}
		if offset < 0 {
			return opts, fmt.Errorf("%w: 'offset' must be non-negative", ErrValidation)
		}
		opts.Offset = offset
	}

	return opts, nil
}
