package client

import (
	"bufio"
	"context"
	"io"
	"net"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/Ehco1996/myftp/internal/binder"
	"github.com/Ehco1996/myftp/internal/codec"
	"github.com/Ehco1996/myftp/internal/constant"
	"github.com/Ehco1996/myftp/internal/metrics"
	"github.com/Ehco1996/myftp/pkg/buffer"
)

type Option func(*Client)

func WithResolver(r binder.Resolver) Option {
	return func(c *Client) { c.resolver = r }
}

func WithFraming(f codec.Framing) Option {
	return func(c *Client) { c.framing = f }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.l = l }
}

// WithBindAddress changes the local address, an ephemeral port on every interface by default.
func WithBindAddress(address string) Option {
	return func(c *Client) { c.bind = address }
}

// Client forwards lines of input to one fixed server and shows the replies.
type Client struct {
	conn   *net.UDPConn
	remote *net.UDPAddr

	bind     string
	resolver binder.Resolver
	framing  codec.Framing
	pool     *buffer.BytePool
	l        *zap.SugaredLogger

	roundTrips atomic.Int64
}

// Connect binds the local socket and resolves address into the only peer of the client.
// A peer spec that resolves to zero or several endpoints fails before anything is sent.
func Connect(ctx context.Context, address string, opts ...Option) (*Client, error) {
	c := &Client{
		bind:     constant.DefaultClientBind,
		resolver: net.DefaultResolver,
		framing:  codec.FramingTrim,
		pool:     buffer.DatagramBufferPool,
		l:        zap.S().Named("client"),
	}
	for _, opt := range opts {
		opt(c)
	}

	conn, err := binder.Listen(c.bind)
	if err != nil {
		return nil, err
	}
	c.l.Infof("client established on %s", conn.LocalAddr())

	remote, err := binder.ResolvePeer(ctx, c.resolver, address)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.conn = conn
	c.remote = remote
	c.l.Infof("requests go to %s", remote)
	return c, nil
}

func (c *Client) LocalAddr() *net.UDPAddr {
	return c.conn.LocalAddr().(*net.UDPAddr)
}

func (c *Client) RemoteAddr() *net.UDPAddr {
	return c.remote
}

func (c *Client) RoundTrips() int64 {
	return c.roundTrips.Load()
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// RoundTrip sends msg as is to the server and waits for one reply datagram.
// There is no timeout, a silent server blocks forever.
func (c *Client) RoundTrip(msg []byte) (string, error) {
	tx, err := c.conn.WriteToUDP(msg, c.remote)
	if err != nil {
		return "", errors.Wrapf(err, "send to %s", c.remote)
	}
	metrics.RecordDatagram(metrics.METRIC_ROLE_CLIENT, metrics.METRIC_FLOW_SEND, tx)
	c.l.Infof("request sent! (%d bytes)", tx)

	buf := c.pool.Get()
	defer c.pool.Put(buf)
	n, source, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		return "", errors.Wrap(err, "recv")
	}
	metrics.RecordDatagram(metrics.METRIC_ROLE_CLIENT, metrics.METRIC_FLOW_RECV, n)
	if source.String() != c.remote.String() {
		c.l.Debugf("reply came from %s instead of %s", source, c.remote)
	}

	body := codec.Decode(buf, n, c.framing)
	c.roundTrips.Inc()
	c.l.Infof("message received! (%d bytes)", n)
	c.l.Infof("body:\n%s", body)
	return body, nil
}

type inputLine struct {
	line []byte
	err  error
}

// readLines feeds the lines of in to the returned channel until a read error,
// which is delivered as the last item, or until ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	ch := make(chan inputLine)
	go func() {
		defer close(ch)
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadBytes('\n')
			select {
			case ch <- inputLine{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// Run reads in line by line, every line with its terminator is one request.
// It stops at the first read, send or receive error, end of input included,
// or as soon as ctx is done, even while waiting for input.
func (c *Client) Run(ctx context.Context, in io.Reader) error {
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	lines := readLines(ctx, in)
	for {
		var next inputLine
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next = <-lines:
		}
		// a last line without terminator still goes out before the read error stops the loop
		if next.err == nil || (errors.Is(next.err, io.EOF) && len(next.line) > 0) {
			if _, err := c.RoundTrip(next.line); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		}
		if next.err != nil {
			return errors.Wrap(next.err, "read input")
		}
	}
}
