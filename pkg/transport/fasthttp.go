package transport

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Payloads below this size are sent uncompressed even when gzip is enabled
const gzipMinSize = 1024

// FastHTTPTransport posts payloads using a pooled fasthttp client.
type FastHTTPTransport struct {
	httpClient *fasthttp.Client
	timeout    time.Duration
	gzipBody   bool
	logger     *zap.Logger
}

// NewFastHTTPTransport creates a transport with the given per-request timeout.
// When gzipBody is true, payloads are compressed and sent with
// Content-Encoding: gzip.
func NewFastHTTPTransport(timeout time.Duration, gzipBody bool, logger *zap.Logger) *FastHTTPTransport {
	return &FastHTTPTransport{
		httpClient: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,

			MaxIdleConnDuration: 30 * time.Second,
		},
		timeout:  timeout,
		gzipBody: gzipBody,
		logger:   logger,
	}
}

// Post sends body to url and returns the collector's response.
// The context deadline, if earlier than the configured timeout, bounds the request.
func (t *FastHTTPTransport) Post(ctx context.Context, url string, contentType string, body []byte) (*Response, error) {
	payload, compressed, err := t.encodeBody(body)
	if err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	if compressed {
		req.Header.Set(fasthttp.HeaderContentEncoding, "gzip")
	}
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	timeout := t.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := t.httpClient.DoTimeout(req, resp, timeout); err != nil {
		t.logger.Debug("POST failed",
			zap.String("url", url),
			zap.Int("bytes", len(payload)),
			zap.Error(err))
		return nil, fmt.Errorf("post %s: %w", url, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		// resp is released on return, copy the body out
		Body: append([]byte(nil), resp.Body()...),
	}

	t.logger.Debug("POST completed",
		zap.String("url", url),
		zap.Int("status", out.StatusCode),
		zap.Int("bytes", len(payload)))

	return out, nil
}

// encodeBody gzips the payload when compression is enabled.
// Small payloads are passed through uncompressed.
func (t *FastHTTPTransport) encodeBody(body []byte) ([]byte, bool, error) {
	if !t.gzipBody || len(body) < gzipMinSize {
		return body, false, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := zw.Close(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), true, nil
}
