package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/domain/course"
	"github.com/studyhub-ai/courserank/internal/domain/eval"
	healthuc "github.com/studyhub-ai/courserank/internal/usecase/health"
	"github.com/studyhub-ai/courserank/internal/usecase/recommend"
)

const maxTopK = 100

// Error codes returned to API clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFitted        = "not_fitted"
	codeCourseNotFound   = "course_not_found"
	codeDatasetNotFound  = "dataset_not_found"
	codeProviderError    = "embedding_provider_error"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Recommender is the ranking slice of the engine the server needs.
type Recommender interface {
	Predict(ctx context.Context, query string, topK int) ([]recommend.Recommendation, error)
}

// Catalog exposes the loaded course table by corpus index.
type Catalog interface {
	Course(index int) (course.Course, error)
	Courses() []course.Course
}

// Evaluator runs retrieval metrics over labeled cases.
type Evaluator interface {
	Run(ctx context.Context, cases []eval.Case, topK int) (eval.Metrics, error)
}

// Server is the HTTP API for the recommendation engine.
type Server struct {
	recommender   Recommender
	catalog       Catalog
	evaluator     Evaluator
	health        *healthuc.Service
	cases         []eval.Case
	defaultTopK   int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. cases are the preloaded evaluation
// cases used when an evaluate request carries none of its own.
func NewServer(
	recommender Recommender,
	catalog Catalog,
	evaluator Evaluator,
	health *healthuc.Service,
	cases []eval.Case,
	defaultTopK int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommender: recommender,
		catalog:     catalog,
		evaluator:   evaluator,
		health:      health,
		cases:       cases,
		defaultTopK: defaultTopK,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFitted, http.StatusConflict, codeNotFitted),
		sentinelHandler(domain.ErrNotLoaded, http.StatusConflict, codeNotFitted),
		sentinelHandler(domain.ErrCourseNotFound, http.StatusNotFound, codeCourseNotFound),
		sentinelHandler(domain.ErrDataNotFound, http.StatusNotFound, codeDatasetNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/recommend", s.Recommend)
	r.Post("/v1/evaluate", s.Evaluate)
	r.Get("/v1/courses", s.ListCourses)
	r.Get("/v1/courses/{index}", s.GetCourse)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type recommendRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

type courseDTO struct {
	Name        string `json:"name"`
	University  string `json:"university"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	About       string `json:"about,omitempty"`
	Description string `json:"description,omitempty"`
}

type recommendationDTO struct {
	Index  int       `json:"index"`
	Score  float64   `json:"score"`
	Course courseDTO `json:"course"`
}

type recommendResponse struct {
	Query   string              `json:"query"`
	TopK    int                 `json:"top_k"`
	Results []recommendationDTO `json:"results"`
}

// Recommend handles POST /v1/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK <= 0 || topK > maxTopK {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"top_k must be between 1 and "+strconv.Itoa(maxTopK))
		return
	}

	recs, err := s.recommender.Predict(r.Context(), req.Query, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := make([]recommendationDTO, len(recs))
	for i, rec := range recs {
		results[i] = recommendationToDTO(rec)
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Query:   req.Query,
		TopK:    topK,
		Results: results,
	})
}

type evaluateCase struct {
	Query    string `json:"query"`
	Relevant []int  `json:"relevant"`
}

type evaluateRequest struct {
	TopK  *int           `json:"top_k,omitempty"`
	Cases []evaluateCase `json:"cases,omitempty"`
}

type evaluateResponse struct {
	TopK    int     `json:"top_k"`
	Cases   int     `json:"cases"`
	Metrics metrics `json:"metrics"`
}

type metrics struct {
	PrecisionAtK float64 `json:"precision_at_k"`
	RecallAtK    float64 `json:"recall_at_k"`
	NDCGAtK      float64 `json:"ndcg_at_k"`
}

// Evaluate handles POST /v1/evaluate.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK <= 0 || topK > maxTopK {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"top_k must be between 1 and "+strconv.Itoa(maxTopK))
		return
	}

	cases := s.cases
	if len(req.Cases) > 0 {
		cases = make([]eval.Case, len(req.Cases))
		for i, c := range req.Cases {
			if c.Query == "" {
				writeError(w, http.StatusBadRequest, codeValidationFailed, "case query is required")
				return
			}
			cases[i] = eval.NewCase(c.Query, c.Relevant)
		}
	}
	if len(cases) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "no evaluation cases configured")
		return
	}

	m, err := s.evaluator.Run(r.Context(), cases, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, evaluateResponse{
		TopK:  topK,
		Cases: len(cases),
		Metrics: metrics{
			PrecisionAtK: m.PrecisionK,
			RecallAtK:    m.RecallK,
			NDCGAtK:      m.NDCGK,
		},
	})
}

type courseListResponse struct {
	Total int         `json:"total"`
	Items []courseDTO `json:"items"`
}

// ListCourses handles GET /v1/courses.
func (s *Server) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses := s.catalog.Courses()
	items := make([]courseDTO, len(courses))
	for i, c := range courses {
		items[i] = courseToDTO(c)
	}
	writeJSON(w, http.StatusOK, courseListResponse{Total: len(items), Items: items})
}

// GetCourse handles GET /v1/courses/{index}.
func (s *Server) GetCourse(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "index must be an integer")
		return
	}

	c, err := s.catalog.Course(index)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, courseToDTO(c))
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func recommendationToDTO(rec recommend.Recommendation) recommendationDTO {
	return recommendationDTO{
		Index:  rec.Index(),
		Score:  rec.Score(),
		Course: courseToDTO(rec.Course()),
	}
}

func courseToDTO(c course.Course) courseDTO {
	return courseDTO{
		Name:        c.Name(),
		University:  c.University(),
		Link:        c.Link(),
		Category:    c.Category(),
		About:       c.About(),
		Description: c.Description(),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFitted,
		domain.ErrNotLoaded,
		domain.ErrCourseNotFound,
		domain.ErrDataNotFound,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
