// internal/story/errors.go
package story

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned before any upstream call is made.
	ErrInvalidRequest = errors.New("INVALID_REQUEST")

	// ErrUpstreamUnavailable never reaches callers of the pipeline; sources recover from it.
	ErrUpstreamUnavailable = errors.New("UPSTREAM_UNAVAILABLE")

	// ErrMissingCredentials is what providers return when they run without keys.
	ErrMissingCredentials = fmt.Errorf("%w: credentials not configured", ErrUpstreamUnavailable)

	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
	ErrGenerationTimeout = fmt.Errorf("%w: GENERATION_TIMEOUT", ErrGenerationFailed)

	// ErrCacheCorruption marks an undecodable cache entry. It is handled as a miss.
	ErrCacheCorruption = errors.New("CACHE_CORRUPTION")
)

func invalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
