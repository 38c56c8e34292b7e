// Package transport delivers batch payloads to a remote collector over HTTP.
package transport

import (
	"context"
	"errors"
)

// ErrEncode marks a local request-body encoding failure. Such failures are
// not transient; callers should not retry the same payload.
// Use errors.Is(err, ErrEncode) to check.
var ErrEncode = errors.New("request body encoding failed")

// Response is the collector's reply to a batch POST.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport posts a single payload to the given URL.
// Implementations must be safe for concurrent use.
type Transport interface {
	Post(ctx context.Context, url string, contentType string, body []byte) (*Response, error)
}
