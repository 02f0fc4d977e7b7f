// Package pymolrpc sends scripts to a PyMOL process started with `pymol -R`.
package pymolrpc

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kolo/xmlrpc"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/httpclient"
	"github.com/varontron/mutation-mapper/internal/ports"
)

const DefaultURL = "http://localhost:9123/RPC2"

type Client struct {
	url       string
	transport http.RoundTripper
	timeout   time.Duration
	logger    *slog.Logger
}

type Option func(*Client)

func WithURL(u string) Option {
	return func(c *Client) { c.url = u }
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// WithTimeout bounds each command; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(opts ...Option) *Client {
	cfg := httpclient.DefaultConfig()
	c := &Client{
		url:       DefaultURL,
		transport: httpclient.NewTransport(cfg),
		timeout:   cfg.Timeout,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.ViewerClient = (*Client)(nil)

// Send runs every script line through PyMOL's cmd.do, stopping at the first
// failure or when ctx is done.
func (c *Client) Send(ctx context.Context, script domain.Script) error {
	const op = "pymolrpc.send"
	if script.Viewer != domain.ViewerPyMOL {
		return domain.Unsupported(op, "remote control for viewer %q", script.Viewer)
	}
	if err := ctx.Err(); err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: c.url, Err: err}
	}

	bound := &boundTransport{base: c.transport, ctx: ctx}
	rc, err := xmlrpc.NewClient(c.url, bound)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindInvalidArgument, Path: c.url, Err: err}
	}
	defer rc.Close()

	lines := script.Lines()
	c.logger.Info("pymolrpc.send.start", "url", c.url, "gene", script.Gene, "commands", len(lines))

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return &domain.OpError{Op: op, Kind: domain.KindExecution, Path: c.url, Err: err}
		}
		if err := c.do(ctx, rc, bound, line); err != nil {
			c.logger.Warn("pymolrpc.send.failed", "line", i+1, "command", line, "err", err)
			return &domain.OpError{
				Op:   op,
				Kind: domain.KindExecution,
				Path: c.url,
				Err:  &LineError{Line: i + 1, Command: line, Err: err},
			}
		}
	}

	c.logger.Info("pymolrpc.send.done", "commands", len(lines))
	return nil
}

// do issues one call. PyMOL answers cmd.do with nil, so no reply is decoded.
func (c *Client) do(ctx context.Context, rc *xmlrpc.Client, bound *boundTransport, line string) error {
	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if c.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	defer cancel()

	bound.ctx = callCtx
	return rc.Call("do", line, nil)
}

// boundTransport attaches the current command's context to the request;
// the rpc client has no per-call context. Calls are issued one at a time.
type boundTransport struct {
	base http.RoundTripper
	ctx  context.Context
}

func (t *boundTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(r.WithContext(t.ctx))
}

// LineError reports which command the viewer rejected.
type LineError struct {
	Line    int
	Command string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Line, e.Command, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
