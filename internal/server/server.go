package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/assetvault/asset-parser/internal/parsing"
)

// Pipeline is the document parsing entry point the server depends on
type Pipeline interface {
	Parse(ctx context.Context, doc parsing.Document) parsing.Result
}

// Server handles HTTP requests for document parsing
type Server struct {
	pipeline Pipeline
	origins  []string
	mux      *http.ServeMux
}

// NewServer creates a new Server. origins lists the allowed CORS origins;
// an empty list allows any origin.
func NewServer(pipeline Pipeline, origins []string) *Server {
	return NewServerWithMux(pipeline, origins, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(pipeline Pipeline, origins []string, mux *http.ServeMux) *Server {
	s := &Server{
		pipeline: pipeline,
		origins:  origins,
		mux:      mux,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/ai/test", s.handleTest)
	s.mux.HandleFunc("POST /api/ai/parse-receipt", s.handleParseReceipt)
}

// allowOrigin resolves the Access-Control-Allow-Origin value for a request
func (s *Server) allowOrigin(r *http.Request) string {
	if len(s.origins) == 0 {
		return "*"
	}
	origin := r.Header.Get("Origin")
	for _, o := range s.origins {
		if o == origin {
			return origin
		}
	}
	return ""
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if origin := s.allowOrigin(r); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// Handler returns the full handler chain: CORS wrapping around the mux
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		s.mux.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}
