// Package server is the companion HTTP server behind `briefing serve`.
//
// It serves the local snapshot file as /data.json, which is the default
// fallback resource of the dashboard, plus a small read-only JSON API
// over the same file and the bookmark store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/abelbrown/briefing/internal/controller"
	"github.com/abelbrown/briefing/internal/model"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// BookmarkLoader reads the stored bookmark ids. store.Store implements it.
type BookmarkLoader interface {
	Load() ([]string, error)
}

// Options configures a Server.
type Options struct {
	// DataFile is the snapshot served as /data.json.
	DataFile string
	// Bookmarks backs the saved filter and the saved count. May be nil.
	Bookmarks BookmarkLoader
	// RateLimit is requests per second across all clients. Zero disables it.
	RateLimit float64
	Burst     int
	Logger    *log.Logger
}

// Server is the companion HTTP server.
type Server struct {
	dataFile  string
	bookmarks BookmarkLoader
	limiter   *rate.Limiter
	log       *log.Logger
	router    chi.Router
}

// New creates a server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	s := &Server{
		dataFile:  opts.DataFile,
		bookmarks: opts.Bookmarks,
		limiter:   rate.NewLimiter(limit, burst),
		log:       logger.WithPrefix("server"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Get("/data.json", s.handleData)

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", s.handleItems)
		r.Get("/stats", s.handleStats)
	})

	s.router = r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "data_file", s.dataFile)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// --- Middleware ---

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		s.fileError(w, err)
		return
	}
	contentType := "application/json"
	if len(data) > 0 && data[0] == '<' {
		contentType = "application/xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

type itemsResponse struct {
	Filter      controller.Filter `json:"filter"`
	LastUpdated string            `json:"last_updated"`
	Count       int               `json:"count"`
	Items       []model.Item      `json:"items"`
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	filter, err := controller.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.snapshot()
	if err != nil {
		s.fileError(w, err)
		return
	}

	items := controller.DeriveVisibleItems(snap, filter, s.bookmarkSet())
	writeJSON(w, http.StatusOK, itemsResponse{
		Filter:      filter,
		LastUpdated: snap.LastUpdated,
		Count:       len(items),
		Items:       items,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot()
	if err != nil {
		s.fileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, controller.Stats{
		Total: snap.Len(),
		Saved: s.bookmarkSet().Len(),
	})
}

// --- Helpers ---

func (s *Server) snapshot() (*model.Snapshot, error) {
	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		return nil, err
	}
	return model.Decode(data)
}

// bookmarkSet reads the store on every call so edits made by a running
// dashboard show up without a restart.
func (s *Server) bookmarkSet() *controller.IDSet {
	if s.bookmarks == nil {
		return controller.NewIDSet()
	}
	ids, err := s.bookmarks.Load()
	if err != nil {
		s.log.Warn("load bookmarks failed", "err", err)
		return controller.NewIDSet()
	}
	return controller.NewIDSet(ids...)
}

func (s *Server) fileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		writeError(w, http.StatusNotFound, "no snapshot available")
	case errors.Is(err, model.ErrParse):
		s.log.Error("snapshot unreadable", "file", s.dataFile, "err", err)
		writeError(w, http.StatusInternalServerError, "snapshot is malformed")
	default:
		s.log.Error("read snapshot failed", "file", s.dataFile, "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("read snapshot: %v", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
