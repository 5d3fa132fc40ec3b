package server

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Ehco1996/myftp/internal/binder"
	"github.com/Ehco1996/myftp/internal/codec"
	"github.com/Ehco1996/myftp/internal/metrics"
	"github.com/Ehco1996/myftp/pkg/buffer"
	"github.com/Ehco1996/myftp/pkg/limiter"
)

const answerTemplate = `
        /// THIS IS ANSWER FROM SERVER ///

          - Request origin: %s
          - Bytes received: %d

        /// END OF ANSWER FROM SERVER  ///
    `

// MakeAnswer builds the reply for a request of n bytes from source.
// The request body never shows up in the reply.
func MakeAnswer(source net.Addr, n int) []byte {
	return codec.Encode(fmt.Sprintf(answerTemplate, source, n))
}

type Option func(*Server)

func WithFraming(f codec.Framing) Option {
	return func(s *Server) { s.framing = f }
}

// WithRateLimit limits every source ip to perSecond datagrams, 0 disables it.
func WithRateLimit(perSecond int) Option {
	return func(s *Server) {
		if perSecond > 0 {
			s.limiter = limiter.NewIPRateLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Server) { s.l = l }
}

func WithBufferPool(bp *buffer.BytePool) Option {
	return func(s *Server) { s.pool = bp }
}

// Server answers every datagram it receives with a report about the request.
// Requests are handled one at a time on a single socket.
type Server struct {
	conn    *net.UDPConn
	framing codec.Framing
	limiter *limiter.IPRateLimiter
	pool    *buffer.BytePool
	l       *zap.SugaredLogger

	served  atomic.Int64
	dropped atomic.Int64
}

// New binds the server socket to address, a bind failure is returned as is.
func New(address string, opts ...Option) (*Server, error) {
	s := &Server{
		framing: codec.FramingTrim,
		pool:    buffer.DatagramBufferPool,
		l:       zap.S().Named("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	conn, err := binder.Listen(address)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.l.Infof("server established on %s", conn.LocalAddr())
	return s, nil
}

func (s *Server) Addr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// Served returns how many requests were answered.
func (s *Server) Served() int64 {
	return s.served.Load()
}

func (s *Server) Dropped() int64 {
	return s.dropped.Load()
}

func (s *Server) Close() error {
	return s.conn.Close()
}

// Serve blocks handling requests until an I/O error happens or ctx is done.
// Any receive or send error ends the loop, nothing is retried.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()
	for {
		if err := s.serveOne(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

func (s *Server) serveOne() error {
	buf := s.pool.Get()
	defer s.pool.Put(buf)

	n, source, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		return errors.Wrap(err, "recv")
	}
	metrics.RecordDatagram(metrics.METRIC_ROLE_SERVER, metrics.METRIC_FLOW_RECV, n)

	body := codec.Decode(buf, n, s.framing)
	s.l.Infof("message received! (%d bytes) from %s", n, source)
	s.l.Infof("body:\n%s", body)

	if s.limiter != nil && !s.limiter.CanServe(source.IP.String()) {
		s.dropped.Inc()
		metrics.DatagramDropped.WithLabelValues(metrics.METRIC_DROP_RATE_LIMIT).Inc()
		s.l.Warnf("drop request from %s: rate limited", source)
		return nil
	}

	answer := MakeAnswer(source, n)
	tx, err := s.conn.WriteToUDP(answer, source)
	if err != nil {
		return errors.Wrapf(err, "send to %s", source)
	}
	metrics.RecordDatagram(metrics.METRIC_ROLE_SERVER, metrics.METRIC_FLOW_SEND, tx)
	s.served.Inc()
	s.l.Infof("answer sent! (%d bytes)", tx)
	return nil
}
