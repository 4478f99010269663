package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"projectzipper/internal/cache"
	"projectzipper/internal/config"
	"projectzipper/internal/handlers"
	"projectzipper/internal/log"
	"projectzipper/internal/storage"
)

const (
	shutdownTimeout = 30 * time.Second
	gcInterval      = 10 * time.Minute
)

type Server struct {
	config         *config.Config
	logger         *slog.Logger
	store          *storage.PersistentStore
	cache          *cache.ArchiveCache
	httpServer     *http.Server
	zipHandler     *handlers.ZipHandler
	apiHandler     *handlers.APIHandler
	browserHandler *handlers.BrowserHandler
	infoHandler    *handlers.InfoHandler
	stopGC         chan struct{}
	stopOnce       sync.Once
	stopErr        error
}

func New(cfg *config.Config, logger *slog.Logger, version string) (*Server, error) {
	heuristic, err := cfg.Heuristic()
	if err != nil {
		return nil, fmt.Errorf("failed to load parser heuristic: %w", err)
	}

	dataDir := cfg.Storage.DataDir
	if !cfg.Storage.Persist {
		dataDir = ""
	}
	store, err := storage.New(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create persistent store: %w", err)
	}

	archiveCache, err := cache.New(cfg.Storage.CacheTTL, cfg.Storage.CacheMaxBytes)
	if err != nil {
		store.Close()
		return nil, err
	}

	opts := handlers.Options{
		Store:           store,
		Cache:           archiveCache,
		Heuristic:       heuristic,
		DefaultFormat:   cfg.Archive.DefaultFormat,
		MaxDiagramBytes: cfg.Archive.MaxDiagramBytes,
	}

	router := chi.NewRouter()
	server := &Server{
		config:         cfg,
		logger:         log.SubLogger(logger, "http"),
		store:          store,
		cache:          archiveCache,
		zipHandler:     handlers.NewZipHandler(opts),
		apiHandler:     handlers.NewAPIHandler(opts),
		browserHandler: handlers.NewBrowserHandler(opts),
		infoHandler:    &handlers.InfoHandler{Version: version},
		stopGC:         make(chan struct{}),
		httpServer: &http.Server{
			Addr:         cfg.Server.ListenAddr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	server.setupRoutes(router)

	return server, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) setupRoutes(r chi.Router) {
	r.Use(s.loggingMiddleware)

	r.Get("/", s.infoHandler.Root)
	r.Get("/docs", s.infoHandler.Docs)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodPost, "/generate-zip", s.zipHandler)

	r.Group(func(r chi.Router) {
		if s.config.Server.AuthEnabled {
			r.Use(s.basicAuthMiddleware)
		}
		r.Route("/api", s.apiHandler.Routes)
		r.Method(http.MethodGet, "/projects/{id}/browse", http.RedirectHandler("browse/", http.StatusMovedPermanently))
		r.Method(http.MethodGet, "/projects/{id}/browse/*", s.browserHandler)
	})
}

type healthResponse struct {
	Status      string `json:"status"`
	DataDir     string `json:"data_dir"`
	Persist     bool   `json:"persist"`
	Projects    int    `json:"projects"`
	CacheHits   uint64 `json:"cache_hits"`
	CacheMisses uint64 `json:"cache_misses"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountProjects()
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		log.FromContext(r.Context()).Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(healthResponse{
		Status:      "healthy",
		DataDir:     s.config.Storage.DataDir,
		Persist:     s.config.Storage.Persist,
		Projects:    count,
		CacheHits:   s.cache.Hits(),
		CacheMisses: s.cache.Misses(),
	})
}

// basicAuthMiddleware provides HTTP Basic authentication
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="ProjectZipper"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Use constant-time comparison to prevent timing attacks
		usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Server.AuthUser)) == 1
		passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(s.config.Server.AuthPass)) == 1

		if !usernameMatch || !passwordMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="ProjectZipper"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware tags each request with an ID, puts a request scoped
// logger into the context and logs the outcome.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		l := s.logger.With("request_id", requestID)
		r = r.WithContext(log.IntoContext(r.Context(), l))

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		l.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
			"user_agent", r.UserAgent(),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	s.logger.Info("starting ProjectZipper server",
		"addr", s.config.Server.ListenAddr,
		"data_dir", s.config.Storage.DataDir,
		"persist", s.config.Storage.Persist,
		"auth", s.config.Server.AuthEnabled,
		"default_format", s.config.Archive.DefaultFormat,
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	go s.runGC()

	s.logger.Info("server started", "url", "http://"+s.config.Server.ListenAddr)

	return s.waitForShutdown(serveErr)
}

// runGC reclaims badger value log space until Stop.
func (s *Server) runGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			if err := s.store.RunGarbageCollection(); err != nil {
				s.logger.Warn("value log GC failed", "error", err)
			}
		}
	}
}

// waitForShutdown waits for shutdown signals and gracefully shuts down the server
func (s *Server) waitForShutdown(serveErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		s.logger.Info("shutting down server")
	case err := <-serveErr:
		s.Stop()
		return fmt.Errorf("server failed: %w", err)
	}

	if err := s.Stop(); err != nil {
		s.logger.Error("server forced to shutdown", "error", err)
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Stop shuts the HTTP server down and closes the cache and store.
// Calling it more than once is safe.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopGC)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.stopErr = err
		}

		s.cache.Close()
		if err := s.store.Close(); err != nil && s.stopErr == nil {
			s.stopErr = fmt.Errorf("failed to close persistent store: %w", err)
		}
	})
	return s.stopErr
}
