// Package api serves the resource payload to the rendering layer over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/cory-johannsen/resources/internal/resource"
)

// PayloadLoader produces a fresh payload per call.
type PayloadLoader interface {
	LoadPayload(ctx context.Context) (resource.Payload, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	loader         PayloadLoader
	allowedOrigins []string
	logger         *zap.Logger
}

// NewHandler creates a new API handler. Every request performs its own load;
// nothing is cached between requests.
//
// Precondition: loader and logger must be non-nil.
func NewHandler(loader PayloadLoader, allowedOrigins []string, logger *zap.Logger) *Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Handler{loader: loader, allowedOrigins: allowedOrigins, logger: logger}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)
		r.Route("/resources", func(r chi.Router) {
			r.Get("/", h.getPayload)
			r.Get("/skills", h.getSkills)
			r.Get("/costs", h.getCosts)
			r.Get("/equipments", h.getEquipments)
		})
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getPayload(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) getSkills(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.Skills)
}

func (h *Handler) getCosts(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.Costs)
}

func (h *Handler) getEquipments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.load(w, r)
	if !ok {
		return
	}
	if p.Equipments == nil {
		writeError(w, http.StatusNotFound, "document does not declare equipment requirements")
		return
	}
	writeJSON(w, http.StatusOK, p.Equipments)
}

// load runs one load and writes the error response itself on failure.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (resource.Payload, bool) {
	p, err := h.loader.LoadPayload(r.Context())
	if err != nil {
		status := statusFor(err)
		h.logger.Error("loading payload",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("status", status),
			zap.Error(err),
		)
		writeError(w, status, err.Error())
		return resource.Payload{}, false
	}
	return p, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, resource.ErrFetch):
		return http.StatusBadGateway
	case errors.Is(err, resource.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding response: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
