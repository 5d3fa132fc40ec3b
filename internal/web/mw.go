package web

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func NginxLogMiddleware(logger *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			latency := time.Since(start)
			logger.Infof("%s - - \"%s %s %s\" %d %v",
				c.RealIP(),
				c.Request().Method,
				c.Request().RequestURI,
				c.Request().Proto,
				c.Response().Status,
				latency,
			)
			return err
		}
	}
}
