package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/listenupapp/moodshelf/internal/metrics"
)

// requestLogger logs one line per request with the chi request ID.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", statusOf(ww),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// prometheusMetrics records request count, latency and in-flight requests.
// Requests are labelled by route pattern to keep cardinality bounded.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(statusOf(ww)), time.Since(start))
	})
}

func statusOf(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

// limitedCall carries the huma continuation through the httprate handler.
type limitedCall struct {
	ctx  huma.Context
	next func(huma.Context)
}

type limitedCallKey struct{}

// rateLimit returns a per-IP limit for expensive operations, or nil when
// limiting is disabled. All operations sharing the result share one budget.
func (s *Server) rateLimit() huma.Middlewares {
	if s.opts.RateLimitRequests <= 0 {
		return nil
	}

	window := s.opts.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	proceed := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		call := r.Context().Value(limitedCallKey{}).(*limitedCall)
		call.next(call.ctx)
	})
	reject := func(_ http.ResponseWriter, r *http.Request) {
		call := r.Context().Value(limitedCallKey{}).(*limitedCall)
		s.logger.Warn("rate limit exceeded", "ip", r.RemoteAddr, "path", r.URL.Path)
		_ = huma.WriteErr(s.api, call.ctx, http.StatusTooManyRequests, "Too many requests. Please try again later.")
	}

	limited := httprate.Limit(
		s.opts.RateLimitRequests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(reject),
	)(proceed)

	return huma.Middlewares{func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)
		call := &limitedCall{ctx: ctx, next: next}
		limited.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), limitedCallKey{}, call)))
	}}
}
