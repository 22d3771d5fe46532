// Package httputil provides a small retrying HTTP client for idempotent
// requests such as model listings. Generation turns never go through it.
package httputil

import (
	"errors"
	"math/rand"
	"net"
	"net/http"
	"time"
)

type RetryClient struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewRetryClient(client *http.Client) *RetryClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RetryClient{
		client:     client,
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
		maxDelay:   5 * time.Second,
	}
}

// Do issues the request, retrying on timeouts, connection errors, 429 and
// 5xx responses with jittered exponential backoff.
func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	delay := c.baseDelay

	var resp *http.Response
	var err error
	for attempt := 0; ; attempt++ {
		resp, err = c.client.Do(req)
		if !retryable(resp, err) || attempt == c.maxRetries {
			return resp, err
		}

		if resp != nil {
			_ = resp.Body.Close()
		}
		if req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, bodyErr
			}
			req.Body = body
		}

		jitter := 0.9 + rand.Float64()*0.2
		time.Sleep(time.Duration(float64(delay) * jitter))
		delay = min(delay*2, c.maxDelay)
	}
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true
		}
		var opErr *net.OpError
		var dnsErr *net.DNSError
		return errors.As(err, &opErr) || errors.As(err, &dnsErr)
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}
