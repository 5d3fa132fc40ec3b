package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Ehco1996/myftp/internal/config"
	"github.com/Ehco1996/myftp/internal/constant"
	"github.com/Ehco1996/myftp/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server exposes prometheus metrics and a plain text status page.
type Server struct {
	e   *echo.Echo
	cfg *config.Config
	l   *zap.SugaredLogger

	addr string
}

func NewServer(cfg *config.Config) (*Server, error) {
	metrics.RegisterMetrics()

	l := zap.S().Named("web")
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(NginxLogMiddleware(l))

	s := &Server{
		e:    e,
		cfg:  cfg,
		l:    l,
		addr: fmt.Sprintf("0.0.0.0:%d", cfg.WebPort),
	}
	e.GET("/", s.index)
	e.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return s, nil
}

func (s *Server) index(c echo.Context) error {
	return c.String(http.StatusOK, fmt.Sprintf(
		"myftp version=%s mode=%s address=%s uptime=%s\n",
		constant.Version, s.cfg.Mode, s.cfg.Address, time.Since(constant.StartTime).Round(time.Second),
	))
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrap(err, "web listen")
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.e.Listener = ln
	s.l.Infof("Start Web Server at http://%s", ln.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- s.e.Start("") }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.e.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
