package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/webterm/internal/api/http"
	"github.com/GriffinCanCode/webterm/internal/api/middleware"
	"github.com/GriffinCanCode/webterm/internal/api/ws"
	"github.com/GriffinCanCode/webterm/internal/domain/command"
	"github.com/GriffinCanCode/webterm/internal/domain/intent"
	"github.com/GriffinCanCode/webterm/internal/domain/session"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/config"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/logging"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/webterm/internal/providers/filesystem"
	"github.com/GriffinCanCode/webterm/internal/providers/shell"
	"github.com/GriffinCanCode/webterm/internal/providers/system"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	handler    http.Handler
	httpServer *http.Server
	session    *session.State
	dispatcher *command.Dispatcher
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
}

// NewServer wires every component from cfg. A nil logger is built from the
// logging section.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.FromConfig(cfg.Logging)
	}

	logger.Info("Initializing webterm server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("shell_mode", cfg.Shell.Mode),
	)

	state, err := session.New(cfg.Session.StartDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	logger.Info("Session cursor initialized", zap.String("cwd", state.Dir()))

	runner, err := shell.NewRunner(cfg.Shell, logger.Component("shell"))
	if err != nil {
		return nil, fmt.Errorf("failed to configure shell fallback: %w", err)
	}
	if cfg.Shell.Mode == config.ShellModeShell {
		logger.Warn("Shell fallback runs client input verbatim; set SHELL_MODE=allowlist or disabled to restrict it")
	}

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("webterm", logger.Component("tracing"))

	dispatcher := command.NewDispatcher(command.Dependencies{
		Session:    state,
		Translator: intent.NewTranslator(),
		Executor:   filesystem.NewExecutor(logger.Component("filesystem"), metrics),
		Shell:      runner,
		Sampler:    system.NewSampler(cfg.Sysinfo.SampleInterval, logger.Component("sysinfo")),
		Logger:     logger.Component("dispatcher"),
		Metrics:    metrics,
		Tracer:     tracer,
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		rl := middleware.RateLimitFromConfig(cfg.RateLimit)
		logger.Info("Rate limiting enabled",
			zap.Int("rps", rl.RequestsPerSecond),
			zap.Int("burst", rl.Burst),
		)
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(dispatcher, state, metrics, runner.Mode(), logger.Component("http"))
	wsHandler := ws.NewHandler(dispatcher, metrics, logger.Component("ws"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.POST("/execute", handlers.Execute)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/metrics/summary", handlers.MetricsSummary)

	router.GET("/stream", wsHandler.HandleConnection)

	logger.Info("Server initialized successfully")

	handler := compress(router)

	return &Server{
		router:  router,
		handler: handler,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		session:    state,
		dispatcher: dispatcher,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
		tracer:     tracer,
	}, nil
}

// compress gzips responses for clients that accept it. WebSocket upgrades
// bypass the gzip writer since they hijack the connection.
func compress(next http.Handler) http.Handler {
	gz := gzhttp.GzipHandler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	})
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Session returns the working-directory cursor
func (s *Server) Session() *session.State {
	return s.session
}

// Run starts the HTTP server and blocks until it stops. A graceful
// Shutdown makes Run return nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}

// Close releases background resources and flushes the logger
func (s *Server) Close() error {
	s.tracer.Close()
	s.logger.Sync()
	return nil
}
