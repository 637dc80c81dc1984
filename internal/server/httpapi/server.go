// Package httpapi exposes the gift service over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/metrics"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/auth"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/cache"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/recommend"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/server/validation"
)

// maxBodyBytes bounds request body reads.
const maxBodyBytes = 1 << 20

// Catalog is the read side of the gift store used by the API.
type Catalog interface {
	Categories(ctx context.Context) ([]string, error)
	GiftsByInterests(ctx context.Context, interests []string, limit int) ([]models.GiftListing, error)
}

// Comparer resolves retailer quotes for a product.
type Comparer interface {
	Compare(ctx context.Context, product string) []models.PriceQuote
}

// Server bundles the services behind the HTTP handlers.
type Server struct {
	engine    *recommend.Engine
	prices    Comparer
	cache     *cache.Cache
	auth      *auth.Service
	catalog   Catalog
	validator *validation.Validator
	log       logger.Logger
	version   string
}

func NewServer(
	engine *recommend.Engine,
	prices Comparer,
	c *cache.Cache,
	authSvc *auth.Service,
	catalog Catalog,
	validator *validation.Validator,
	log logger.Logger,
	version string,
) *Server {
	return &Server{
		engine:    engine,
		prices:    prices,
		cache:     c,
		auth:      authSvc,
		catalog:   catalog,
		validator: validator,
		log:       log.WithFields(map[string]interface{}{"component": "httpapi"}),
		version:   version,
	}
}

// Router assembles the route table with CORS, correlation IDs, logging, and
// metrics applied to every request.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))
	r.Use(RequestID)
	r.Use(Instrument(s.log))

	r.Get("/", s.handleHome)
	r.Post("/search", s.handleSearch)
	r.Route("/auth", func(rr chi.Router) {
		rr.Post("/login", s.handleLogin)
		rr.Post("/register", s.handleRegister)
	})
	r.Route("/api", func(rr chi.Router) {
		rr.Post("/compare", s.handleCompare)
		rr.Get("/categories", s.handleCategories)
		rr.Get("/filters", s.handleFilters)
		rr.Get("/health", s.handleHealth)
		rr.Route("/admin", func(ar chi.Router) {
			ar.Use(s.requireAuth)
			ar.Post("/cache/purge", s.handleCachePurge)
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Santa's AI Gift Finder API is running",
		"version": s.version,
		"endpoints": map[string]string{
			"search":     "/search (POST)",
			"login":      "/auth/login (POST)",
			"register":   "/auth/register (POST)",
			"compare":    "/api/compare (POST)",
			"categories": "/api/categories (GET)",
			"filters":    "/api/filters (GET)",
			"health":     "/api/health (GET)",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "santas-gift-finder-backend",
		"version": s.version,
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"filters": map[string][]float64{
			"ages":   {0, 5, 12, 18, 100},
			"prices": {0, 50, 100, 500},
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validator.Search(body); err != nil {
		metrics.SearchesTotal.WithLabelValues("rejected").Inc()
		s.writeError(w, err)
		return
	}

	var req models.SearchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, apperrors.NewValidationError("request body must be valid JSON"))
		return
	}

	var resp models.SearchResponse
	if s.cache.GetSearch(r.Context(), req.Query, &resp) {
		metrics.SearchesTotal.WithLabelValues("cached").Inc()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	// The analysis outlives the full search payload in the cache, so an
	// expired search entry can still reuse its query analysis.
	var result recommend.Result
	if !s.cache.GetAnalysis(r.Context(), req.Query, &result) {
		result = *s.engine.Process(req.Query)
		s.cache.SetAnalysis(r.Context(), req.Query, result)
	}
	recommendations := s.withCatalogListings(r.Context(), &result, req.Limit)
	if req.Limit > 0 && len(recommendations) > req.Limit {
		recommendations = recommendations[:req.Limit]
	}
	for i := range recommendations {
		recommendations[i].Prices = s.prices.Compare(r.Context(), recommendations[i].Name)
	}

	resp = models.SearchResponse{
		Success:         true,
		Recommendations: recommendations,
		QueryAnalysis:   result.Analysis(),
	}
	s.cache.SetSearch(r.Context(), req.Query, resp)
	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

// withCatalogListings supplements knowledge-base recommendations with stored
// catalog entries for the same interests, deduplicated by ID. A catalog
// failure leaves the knowledge-base results standing.
func (s *Server) withCatalogListings(ctx context.Context, result *recommend.Result, limit int) []models.GiftListing {
	recommendations := result.Recommendations
	if len(result.MatchedInterests) == 0 || (limit > 0 && len(recommendations) >= limit) {
		return recommendations
	}

	stored, err := s.catalog.GiftsByInterests(ctx, result.MatchedInterests, recommend.MaxRecommendations)
	if err != nil {
		s.log.WithError(err).Warn("catalog lookup failed", nil)
		return recommendations
	}

	seen := make(map[string]struct{}, len(recommendations))
	for _, l := range recommendations {
		seen[l.ID] = struct{}{}
	}
	for _, l := range stored {
		if _, dup := seen[l.ID]; dup {
			continue
		}
		recommendations = append(recommendations, l)
	}
	return recommendations
}

func (s *Server) handleCachePurge(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.InvalidateSearches(r.Context()); err != nil {
		s.log.WithError(err).Error("search cache purge failed", nil)
		s.writeError(w, apperrors.NewServerError("could not purge cache", 0))
		return
	}
	if err := s.cache.InvalidateAnalyses(r.Context()); err != nil {
		s.log.WithError(err).Error("analysis cache purge failed", nil)
		s.writeError(w, apperrors.NewServerError("could not purge cache", 0))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validator.Compare(body); err != nil {
		s.writeError(w, err)
		return
	}

	var req struct {
		ProductName string `json:"product_name"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, apperrors.NewValidationError("request body must be valid JSON"))
		return
	}

	writeJSON(w, http.StatusOK, models.CompareResponse{
		Success: true,
		Prices:  s.prices.Compare(r.Context(), req.ProductName),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.log.WithError(err).Error("category listing failed", nil)
		s.writeError(w, apperrors.NewServerError("could not list categories", 0))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": categories,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validator.Login(body); err != nil {
		s.writeError(w, err)
		return
	}

	var req models.LoginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, apperrors.NewValidationError("request body must be valid JSON"))
		return
	}

	token, profile, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Success:     true,
		AccessToken: token,
		User:        profile,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validator.Register(body); err != nil {
		s.writeError(w, err)
		return
	}

	var req models.RegisterRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, apperrors.NewValidationError("request body must be valid JSON"))
		return
	}

	if _, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.RegisterResponse{Success: true})
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewValidationError("could not read request body")
	}
	return body, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrCodeAuth:
		status = http.StatusUnauthorized
	case apperrors.ErrCodeNetwork:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   apperrors.MessageOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
