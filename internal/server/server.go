// Package server publishes the members' birthday calendar on localhost.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/hermandad/internal/config"
	"golang.org/x/time/rate"
)

// snapshot is one rendered calendar with its HTTP validators.
type snapshot struct {
	data         []byte
	etag         string
	lastModified time.Time
}

// FeedServer serves the latest calendar snapshot. Reads are lock-free.
type FeedServer struct {
	current atomic.Pointer[snapshot]
	addr    atomic.Pointer[string]
	limiter *rate.Limiter
	Port    string
}

// NewFeedServer creates a server for port on the loopback interface.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{
		Port:    port,
		limiter: rate.NewLimiter(rate.Limit(config.FeedRateLimit), config.FeedRateBurst),
	}
}

// SetRateLimit changes how many feed requests per second are answered.
// rate.Inf disables the limit.
func (s *FeedServer) SetRateLimit(limit rate.Limit, burst int) {
	s.limiter.SetLimit(limit)
	s.limiter.SetBurst(burst)
}

// Addr returns the bound address once Start is listening, or "".
func (s *FeedServer) Addr() string {
	if a := s.addr.Load(); a != nil {
		return *a
	}
	return ""
}

// Handler exposes the routes, mainly for tests.
func (s *FeedServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	// Every method reaches handleFeed so it can answer 405 with Allow.
	r.HandleFunc(config.RouteRoot, s.handleFeed)
	r.HandleFunc(config.RouteFeed, s.handleFeed)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, config.HTTPMsgNotFound, http.StatusNotFound)
	})
	return r
}

// rateLimit answers 429 once calendar clients poll faster than the limiter allows.
func (s *FeedServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set(config.HeaderRetryAfter, strconv.Itoa(retryAfter(s.limiter.Limit())))
			http.Error(w, config.HTTPMsgTooMany, http.StatusTooManyRequests)
			slog.Warn(config.MsgRateLimited,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyURL, r.URL.Path,
			)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfter is the whole seconds until one token is back, at least 1.
func retryAfter(limit rate.Limit) int {
	if limit <= 0 || limit == rate.Inf {
		return 1
	}
	d := time.Duration(float64(time.Second) / float64(limit))
	sec := int((d + time.Second - 1) / time.Second)
	if sec < 1 {
		sec = 1
	}
	return sec
}

// Start listens and blocks until ctx is cancelled or the listener fails.
// Port "0" binds any free port; Addr reports which.
func (s *FeedServer) Start(ctx context.Context) error {
	if err := checkPort(s.Port); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", config.LocalhostBindAddr+config.AddrSeparator+s.Port)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
	bound := ln.Addr().String()
	s.addr.Store(&bound)

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serveErr := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, bound,
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil
	case err := <-serveErr:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

func checkPort(port string) error {
	if port == "" {
		return errors.New(config.ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPortNumber, err)
	}
	if n < 0 || n > config.MaxPort {
		return fmt.Errorf("%s: %d", config.ErrPortRange, n)
	}
	return nil
}

// Update swaps in a new calendar. Identical content keeps its validators so
// subscribed clients keep getting 304s.
func (s *FeedServer) Update(data []byte) {
	sum := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(sum[:]))

	if prev := s.current.Load(); prev != nil && prev.etag == etag {
		return
	}

	s.current.Store(&snapshot{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Truncate(time.Second),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

func (s *FeedServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	snap := s.current.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, snap.etag)
	h.Set(config.HeaderLastModified, snap.lastModified.Format(http.TimeFormat))

	if notModified(r, snap) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, bytes.NewReader(snap.data)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// notModified applies If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, snap *snapshot) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == snap.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	t, err := http.ParseTime(since)
	if err != nil {
		return false
	}
	return !snap.lastModified.After(t)
}
