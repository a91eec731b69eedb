package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/GriffinCanCode/ptyhub/internal/api/http"
	"github.com/GriffinCanCode/ptyhub/internal/api/middleware"
	"github.com/GriffinCanCode/ptyhub/internal/api/ws"
	"github.com/GriffinCanCode/ptyhub/internal/events"
	"github.com/GriffinCanCode/ptyhub/internal/infrastructure/config"
	"github.com/GriffinCanCode/ptyhub/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ptyhub/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ptyhub/internal/terminal"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	terminals *terminal.Manager
	hub       *events.Hub
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newServer(cfg, logger), nil
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Level != "" && !cfg.Development {
		logCfg.Level = cfg.Level
	}
	logCfg.File = logging.FileConfig{
		Filename:   cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   true,
	}
	return logging.New(logCfg)
}

func newServer(cfg *config.Config, logger *logging.Logger) *Server {
	logger.Info("Initializing ptyhub server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	metrics := monitoring.NewMetrics()
	hub := events.NewHub(cfg.Stream.ClientBuffer, logger.Named("events"))

	opts := []terminal.Option{
		terminal.WithLogger(logger.Named("terminal")),
		terminal.WithRecorder(metrics),
		terminal.WithSize(cfg.Terminal.Cols, cfg.Terminal.Rows),
		terminal.WithReadBufferSize(cfg.Terminal.ReadBufferSize),
		terminal.WithCloseGrace(cfg.Terminal.CloseGrace),
		terminal.WithEnv(cfg.Terminal.Env...),
	}
	if cfg.Terminal.Shell != "" {
		opts = append(opts, terminal.WithShell(cfg.Terminal.Shell, cfg.Terminal.ShellArgs...))
	}
	terminals := terminal.NewManager(hub, opts...)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(terminals, logger.Named("api"))
	handlers.Register(router)

	wsHandler := ws.NewHandler(terminals, hub, logger.Named("ws"), metrics, cfg.Stream.WriteTimeout)
	router.GET("/stream", wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:    router,
		terminals: terminals,
		hub:       hub,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Terminals returns the session manager.
func (s *Server) Terminals() *terminal.Manager {
	return s.terminals
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// requests and closes every terminal session.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.router}
	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(srv)
	})
	return g.Wait()
}

func (s *Server) shutdown(srv *http.Server) error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; closing the
	// hub ends their streams.
	s.hub.Close()
	err := srv.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
	}
	if terr := s.terminals.Shutdown(ctx); terr != nil {
		s.logger.Warn("Terminal readers did not finish in time", zap.Error(terr))
		err = errors.Join(err, terr)
	}
	return err
}

// Close flushes and releases the logger.
func (s *Server) Close() error {
	return s.logger.Close()
}
