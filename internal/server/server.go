package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/db"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/extract"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/server/ratelimit"
)

// Storage is the persistence surface the HTTP handlers depend on.
// *db.DB satisfies it.
type Storage interface {
	Ping(ctx context.Context) error

	CreateResume(ctx context.Context, fileName string, fileHash *string) (int64, bool, error)
	SaveExtractedProfile(ctx context.Context, resumeID int64, profile db.ExtractedProfile) error
	GetResume(ctx context.Context, id int64) (*db.Resume, error)
	ListResumes(ctx context.Context, opts db.ListResumesOptions) ([]db.Resume, error)
	DeleteResume(ctx context.Context, id int64) error

	CreateJob(ctx context.Context, title, description, requiredSkills, weightConfig string) (int64, error)
	GetJob(ctx context.Context, id int64) (*db.Job, error)
	ListJobs(ctx context.Context, opts db.ListJobsOptions) ([]db.Job, error)
	UpdateJob(ctx context.Context, id int64, title, description, requiredSkills, weightConfig string) error
	DeleteJob(ctx context.Context, id int64) error

	GetScore(ctx context.Context, resumeID, jobID int64) (*scoring.ScoreResult, error)
	ListScoresByJob(ctx context.Context, jobID int64, limit int) ([]db.JobScoreRow, error)
	ListScoresByResume(ctx context.Context, resumeID int64) ([]scoring.ScoreResult, error)

	UpsertVector(ctx context.Context, entityType string, entityID int64, vector []float64) error
	DeleteVector(ctx context.Context, entityType string, entityID int64) error
}

// Scorer computes and persists compatibility scores. The scoring
// orchestrator satisfies it.
type Scorer interface {
	Score(ctx context.Context, resumeID, jobID int64) (*scoring.ScoreResult, error)
	ScoreAll(ctx context.Context, jobID int64) ([]scoring.ScoreResult, error)
}

// Parser is the document parsing and field extraction collaborator.
type Parser interface {
	Parse(ctx context.Context, fileName string, content []byte) (string, error)
	Extract(ctx context.Context, text string) (*extract.ExtractedFields, error)
}

// Embedder is the text embedding collaborator.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Storage
	scorer      Scorer
	parser      Parser
	embedder    Embedder
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService // nil when auth is disabled
}

// Config holds server configuration
type Config struct {
	Port      int
	JWTSecret string
}

// New creates a new server instance. A nil parser or embedder disables the
// corresponding enrichment step rather than failing requests.
func New(cfg Config, store Storage, scorer Scorer, parser Parser, embedder Embedder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		store:    store,
		scorer:   scorer,
		parser:   parser,
		embedder: embedder,
		logger:   logger,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	if cfg.JWTSecret != "" {
		s.jwtService = NewJWTService(cfg.JWTSecret, 24*time.Hour)
	}

	mux := http.NewServeMux()

	// Scoring endpoints
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("POST /score-all", s.handleScoreAll)
	mux.HandleFunc("GET /jobs/{id}/scores", s.handleListJobScores)
	mux.HandleFunc("GET /jobs/{id}/scores/{resume_id}", s.handleGetScore)
	mux.HandleFunc("GET /resumes/{id}/scores", s.handleListResumeScores)

	// Resume endpoints
	mux.HandleFunc("POST /resumes", s.withAuth(s.handleUploadResume))
	mux.HandleFunc("GET /resumes", s.handleListResumes)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("DELETE /resumes/{id}", s.withAuth(s.handleDeleteResume))

	// Job endpoints
	mux.HandleFunc("POST /jobs", s.withAuth(s.handleCreateJob))
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PUT /jobs/{id}", s.withAuth(s.handleUpdateJob))
	mux.HandleFunc("DELETE /jobs/{id}", s.withAuth(s.handleDeleteJob))

	// Embedding vector endpoints for external writers
	mux.HandleFunc("PUT /vectors/{entity_type}/{id}", s.withAuth(s.handlePutVector))
	mux.HandleFunc("DELETE /vectors/{entity_type}/{id}", s.withAuth(s.handleDeleteVector))

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Batch scoring can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.logger.Info("server stopped")
	return nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging with a per-request correlation ID.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// withAuth requires a valid bearer token on mutating routes. When no JWT
// secret is configured authentication is disabled entirely.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.jwtService == nil {
			next(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.errorResponse(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		if _, err := s.jwtService.ValidateToken(token); err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next(w, r)
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  "database unreachable",
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// typedError writes an error response with the status derived from the
// error's type.
func (s *Server) typedError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Int("remaining", info.Remaining),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// pathID parses the {id} path value as a positive integer.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}
