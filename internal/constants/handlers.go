package constants

import "time"

// Backend client constants
const (
	// DefaultBackendTimeout bounds a single request to the FileFlow backend
	DefaultBackendTimeout = 10 * time.Second

	// BackendMaxRetries is the number of retries for idempotent backend reads
	BackendMaxRetries = 3

	// BackendRetryInitialInterval is the first backoff interval for retried reads
	BackendRetryInitialInterval = 200 * time.Millisecond

	// BackendRetryMaxInterval caps a single backoff interval
	BackendRetryMaxInterval = 2 * time.Second

	// MaxResponseBytes limits how much of a backend response body is read
	MaxResponseBytes = 4 << 20
)

// Project form constants
const (
	// DefaultMaxUploadSize is the max file size (MB) prefilled on the create form
	DefaultMaxUploadSize = 5
)
