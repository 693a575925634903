// Package httpx provides the shared HTTP client configuration used when
// talking to local AI servers.
package httpx

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// NewClient returns an http.Client tuned for local inference servers:
// generation can be slow, so the overall timeout is generous while the
// dial timeout stays short.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

// ProbeHealth reports whether url answers with a 2xx status. Used to detect
// which local backend is listening before the first generation request.
func ProbeHealth(ctx context.Context, client *http.Client, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("health probe failed")
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
