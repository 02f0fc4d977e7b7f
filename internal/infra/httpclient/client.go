// Package httpclient builds the HTTP transport used to drive viewer
// processes on the local machine.
package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/varontron/mutation-mapper/internal/domain"
)

type Config struct {
	// Timeout bounds one viewer command. It is applied per call by the
	// caller's context, not by the transport.
	Timeout time.Duration

	DialTimeout     time.Duration
	KeepAlive       time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConnsPerHost int
}

// DefaultConfig targets a viewer on the local machine.
func DefaultConfig() Config {
	return Config{
		Timeout:             10 * time.Second,
		DialTimeout:         2 * time.Second,
		KeepAlive:           30 * time.Second,
		ResponseHeader:      10 * time.Second,
		IdleConnTimeout:     30 * time.Second,
		MaxIdleConnsPerHost: 2,
	}
}

// FromRemote applies the workspace remote settings to the defaults.
func FromRemote(rc domain.RemoteConfig) Config {
	cfg := DefaultConfig()
	if rc.Timeout > 0 {
		cfg.Timeout = rc.Timeout
		cfg.ResponseHeader = rc.Timeout
	}
	return cfg
}

// NewTransport builds the tuned transport. Callers bound each call with
// cfg.Timeout through the request context.
func NewTransport(cfg Config) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}
	return &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		ResponseHeaderTimeout: cfg.ResponseHeader,
	}
}
