// Package server assembles the HTTP handler tree.
package server

import (
	"context"
	"net/http"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"

	"go.uber.org/zap"
)

type Options struct {
	Logger         *zap.Logger
	CORSOrigins    []string
	TrustedProxies []string
	HSTS           bool
	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
}

// Server is the root http.Handler. Close releases the rate limiter.
type Server struct {
	handler http.Handler
	limiter *httpx.RateLimiter
}

func New(svc *book.Service, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			log.Warn("readiness check failed", zap.Error(err))
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	book.NewHTTPHandler(svc).Routes(mux)

	limiter := httpx.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, opts.TrustedProxies...)
	handler := httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(opts.HSTS),
		httpx.CORSMiddleware(opts.CORSOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(opts.MaxBodyBytes),
	)

	return &Server{handler: handler, limiter: limiter}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Close() {
	s.limiter.Close()
}
