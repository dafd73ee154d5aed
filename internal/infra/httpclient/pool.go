package httpclient

import (
	"net/http"
	"time"
)

// sharedTransport is reused across all pooled clients to maximize
// connection reuse against the content store and the chat gateway.
var sharedTransport = &http.Transport{
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     120 * time.Second,
	DisableKeepAlives:   false,
}

// NewPooledClient creates an http.Client that shares a connection pool with
// other pooled clients. Aggregation batches issue dozens of small requests
// to the same host, so keep-alive reuse matters more than isolation.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}
