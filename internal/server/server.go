package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"swiftlogix/internal/config"
	"swiftlogix/internal/handler"
	"swiftlogix/internal/middleware"
	"swiftlogix/internal/session"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const readHeaderTimeout = 10 * time.Second

type Server struct {
	echo     *echo.Echo
	http     *http.Server
	tracking *handler.TrackingHandler
	logger   *zap.Logger
}

// echoの組み立て。ルートはRegisterRoutesで足す
func New(cfg config.Config, h Handlers, verifier *session.TokenVerifier, resolver *session.Resolver, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	RegisterRoutes(e, h, verifier, resolver)

	return &Server{
		echo: e,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           e,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		tracking: h.Tracking,
		logger:   logger,
	}
}

func (s *Server) Handler() http.Handler { return s.echo }

// 止まるまでブロックする。Shutdownで止めたときはnil
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// live接続を先に閉じてからhttpを止める
func (s *Server) Shutdown(ctx context.Context) error {
	if s.tracking != nil {
		s.tracking.Shutdown()
	}
	return s.http.Shutdown(ctx)
}
