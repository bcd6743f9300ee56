// Package syncserver exposes a profile over HTTP so other devices can read it,
// change it and follow changes over a websocket.
package syncserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Giantpizzahead/life-coach-x/internal/config"
	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
	"github.com/Giantpizzahead/life-coach-x/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

// Options carries the server's collaborators. Zero fields take defaults.
type Options struct {
	Logger   zerolog.Logger
	Gatherer prometheus.Gatherer
}

type Server struct {
	svc        *tracker.Service
	router     *gin.Engine
	httpServer *http.Server
	hub        *Hub
	upgrader   websocket.Upgrader
	log        zerolog.Logger
	startTime  time.Time
	stopWatch  func()
}

func New(svc *tracker.Service, cfg config.ServerConfig, opts Options) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	log := opts.Logger.With().Str("component", "syncserver").Logger()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		corsConfig.AllowWebSockets = true
		router.Use(cors.New(corsConfig))
	}

	s := &Server{
		svc:    svc,
		router: router,
		hub:    NewHub(log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		log:       log,
		startTime: time.Now(),
	}
	if cfg.EnableCORS {
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	s.stopWatch = svc.OnChange(func(snap *engine.Snapshot) {
		s.hub.Broadcast(snapshotMessage(snap))
	})
	s.setupRoutes(opts.Gatherer)
	return s
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/catalog", s.handleCatalog)
	api.GET("/status", s.handleStatus)
	api.GET("/snapshot", s.handleGetSnapshot)
	api.PUT("/snapshot", s.handlePutSnapshot)
	api.GET("/history", s.handleHistory)
	api.POST("/selections", s.handleSelection)
	api.POST("/adjustments", s.handleAdjustment)
	api.POST("/rollover", s.handleRollover)
	api.GET("/stream", s.handleStream)

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket fan-out.
func (s *Server) Hub() *Hub { return s.hub }

// Run serves until ctx is cancelled, then shuts down gracefully. Writes from
// other processes are forwarded to stream clients when the gateway supports it.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", s.httpServer.Addr).Str("profile", s.svc.Profile()).Msg("sync server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.svc.Watch(ctx)
		switch {
		case errors.Is(err, gateway.ErrNotSubscribable):
			s.log.Debug().Msg("storage backend has no change feed; serving local changes only")
			return nil
		case err != nil && !errors.Is(err, context.Canceled):
			s.log.Warn().Err(err).Msg("change feed stopped")
			return nil
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info().Msg("sync server stopping")
		s.stopWatch()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
