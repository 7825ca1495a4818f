// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client used for content API requests.
package httputil

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	DefaultConnectTimeout = 15 * time.Second
	DefaultReadTimeout    = 10 * time.Second
)

// NewClient returns an http.Client whose connections time out after
// connectTimeout while dialing and after readTimeout of inactivity on any
// single read. Unlike http.Client.Timeout, the read timeout does not cap the
// total transfer time of a slow but steady body. Zero values use the defaults.
func NewClient(connectTimeout, readTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &idleTimeoutConn{Conn: conn, timeout: readTimeout}, nil
		},
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		DisableKeepAlives:     true,
	}
	return &http.Client{Transport: transport}
}

// idleTimeoutConn arms a fresh read deadline before every Read.
type idleTimeoutConn struct {
	net.Conn
	timeout time.Duration
}

func (c *idleTimeoutConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

// maxDrain bounds how much of an unread body DrainAndClose consumes. A
// slow or endless body is cut off instead of holding the caller.
const maxDrain = 64 << 10

// DrainAndClose discards up to maxDrain bytes of what is left of body and
// closes it.
func DrainAndClose(body io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrain))
	return body.Close()
}
