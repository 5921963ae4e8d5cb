package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atelier-cloud/brandgen/internal/domain"
	"github.com/atelier-cloud/brandgen/internal/repository/contentstore"
	pipelineuc "github.com/atelier-cloud/brandgen/internal/usecase/pipeline"
	validationuc "github.com/atelier-cloud/brandgen/internal/usecase/validation"
	"github.com/atelier-cloud/brandgen/internal/version"
)

// Pinger checks backing store connectivity for health reporting.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the generation pipeline over HTTP.
type Server struct {
	pipeline  *pipelineuc.Service
	validator *validationuc.Service
	content   *contentstore.Store
	pinger    Pinger
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	pipeline *pipelineuc.Service,
	validator *validationuc.Service,
	content *contentstore.Store,
	pinger Pinger,
	logger *zap.Logger,
) *Server {
	return &Server{
		pipeline:  pipeline,
		validator: validator,
		content:   content,
		pinger:    pinger,
		logger:    logger,
	}
}

// Routes mounts all handlers on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", s.Generate)
		r.Post("/validate", s.Validate)
		r.Post("/projects/{projectID}/documents", s.CreateDocument)
	})
	return r
}

// Generate handles POST /api/v1/generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Theme == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "Theme is required")
		return
	}
	if req.VariantCount < 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "variant_count must not be negative")
		return
	}

	result, err := s.pipeline.Execute(r.Context(), pipelineuc.Request{
		Prompt:       req.Prompt,
		Theme:        themeFromDTO(req.Theme),
		Project:      projectFromDTO(req.Project),
		VariantCount: req.VariantCount,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponseFromResult(result))
}

// Validate handles POST /api/v1/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Content is required")
		return
	}
	if req.Theme == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "Theme is required")
		return
	}

	result := s.validator.Validate(
		r.Context(), req.Content, themeFromDTO(req.Theme), projectFromDTO(req.Project))
	writeJSON(w, http.StatusOK, validateResponseFromResult(result))
}

// CreateDocument handles POST /api/v1/projects/{projectID}/documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Text is required")
		return
	}

	doc := domain.Document{
		ID:        req.ID,
		Text:      req.Text,
		MediaType: domain.MediaType(req.MediaType),
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.MediaType == "" {
		doc.MediaType = domain.MediaText
	}

	if err := s.content.SaveDocument(r.Context(), projectID, &doc); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": doc.ID})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]string{
		"status":  status,
		"version": version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrInvalidPrompt):
		writeError(w, http.StatusBadRequest, "invalid_prompt", err.Error())
	case errors.Is(err, domain.ErrThemeNotFound):
		writeError(w, http.StatusNotFound, "theme_not_found", err.Error())
	case errors.Is(err, domain.ErrAllVariantsFailed):
		writeError(w, http.StatusBadGateway, "all_variants_failed", "No variants could be generated")
	case errors.Is(err, domain.ErrGenerationProviderError):
		writeError(w, http.StatusBadGateway, "generation_provider_error", "Generation provider request failed")
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, "embedding_provider_error", "Embedding provider request failed")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
