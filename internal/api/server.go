// Package api exposes golden records and the review queue over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/company"
	"github.com/sells-group/company-resolver/internal/model"
	"github.com/sells-group/company-resolver/internal/store"
)

// ReadStore is the query side the API serves from.
type ReadStore interface {
	Ping(ctx context.Context) error
	GetCompanyByKey(ctx context.Context, key string) (*model.CanonicalCompany, error)
	ListCompanies(ctx context.Context, filter store.CompanyFilter) ([]model.CanonicalCompany, error)
	ListReviewItems(ctx context.Context, filter store.ReviewFilter) ([]model.ReviewItem, error)
}

// Reviews applies reviewer decisions.
type Reviews interface {
	Get(ctx context.Context, id int64) (*model.ReviewItem, error)
	Approve(ctx context.Context, id int64) (*model.ReviewItem, *model.CanonicalCompany, error)
	Reject(ctx context.Context, id int64) (*model.ReviewItem, error)
}

// Server handles API requests.
type Server struct {
	store   ReadStore
	reviews Reviews
	origins []string
}

// NewServer creates a Server. An empty origins list allows any origin.
func NewServer(st ReadStore, reviews Reviews, origins []string) *Server {
	return &Server{store: st, reviews: reviews, origins: origins}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Route("/companies", func(r chi.Router) {
		r.Get("/", s.listCompanies)
		r.Get("/{key}", s.getCompany)
	})
	r.Route("/review", func(r chi.Router) {
		r.Get("/", s.listReviews)
		r.Get("/{id}", s.getReview)
		r.Post("/{id}/approve", s.approveReview)
		r.Post("/{id}/reject", s.rejectReview)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		zap.L().Warn("api: health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.CompanyFilter{
		Source: model.Source(q.Get("source")),
		Search: q.Get("q"),
	}
	var err error
	if filter.Limit, filter.Offset, err = paging(q.Get("limit"), q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Source != "" && filter.Source != model.SourceA && filter.Source != model.SourceB {
		writeError(w, http.StatusBadRequest, "source must be A or B")
		return
	}

	companies, err := s.store.ListCompanies(r.Context(), filter)
	if err != nil {
		s.internalError(w, "list companies", err)
		return
	}
	if companies == nil {
		companies = []model.CanonicalCompany{}
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	// Keys without a domain embed a source URL and arrive path-escaped.
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid company key")
		return
	}
	c, err := s.store.GetCompanyByKey(r.Context(), key)
	if err != nil {
		s.internalError(w, "get company", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ReviewFilter{Status: model.ReviewStatus(q.Get("status"))}
	if filter.Status == "" {
		filter.Status = model.ReviewPending
	}
	if q.Get("status") == "all" {
		filter.Status = ""
	} else if !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "status must be pending, approved, rejected or all")
		return
	}
	var err error
	if filter.Limit, filter.Offset, err = paging(q.Get("limit"), q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.store.ListReviewItems(r.Context(), filter)
	if err != nil {
		s.internalError(w, "list reviews", err)
		return
	}
	if items == nil {
		items = []model.ReviewItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}
	item, err := s.reviews.Get(r.Context(), id)
	if err != nil {
		s.reviewError(w, "get review", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type approveResponse struct {
	Review  *model.ReviewItem       `json:"review"`
	Company *model.CanonicalCompany `json:"company"`
}

func (s *Server) approveReview(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}
	item, c, err := s.reviews.Approve(r.Context(), id)
	if err != nil {
		s.reviewError(w, "approve review", err)
		return
	}
	writeJSON(w, http.StatusOK, approveResponse{Review: item, Company: c})
}

func (s *Server) rejectReview(w http.ResponseWriter, r *http.Request) {
	id, ok := reviewID(w, r)
	if !ok {
		return
	}
	item, err := s.reviews.Reject(r.Context(), id)
	if err != nil {
		s.reviewError(w, "reject review", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func reviewID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid review id")
		return 0, false
	}
	return id, true
}

func paging(limitStr, offsetStr string) (limit, offset int, err error) {
	if limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil || limit < 0 {
			return 0, 0, eris.New("limit must be a non-negative integer")
		}
	}
	if offsetStr != "" {
		if offset, err = strconv.Atoi(offsetStr); err != nil || offset < 0 {
			return 0, 0, eris.New("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}

func (s *Server) reviewError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, company.ErrReviewNotFound) {
		writeError(w, http.StatusNotFound, "review item not found")
		return
	}
	if errors.Is(err, company.ErrReviewConflict) {
		writeError(w, http.StatusConflict, "review item is not pending or its source b record is already resolved")
		return
	}
	s.internalError(w, op, err)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	zap.L().Error("api: "+op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
