package apperr

import "errors"

// ErrInvalidInput is returned when a provided domain, IP address, or RBL zone
// fails validation before any network activity takes place.
// Use errors.Is(err, apperr.ErrInvalidInput) to detect validation failures
// uniformly across all monitors.
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned by HTTP-based components when a request fails at
// the transport level or the server responds with a non-2xx status code.
// Use errors.Is(err, apperr.ErrRequestFailed) to detect request failures
// uniformly across all monitors.
var ErrRequestFailed = errors.New("request failed")
