// Package web serves the rotation visualizer over HTTP. Every browser tab holds a session on the
// server; the API edits the session's rotation and returns every representation of it.
package web

import (
	"math"
	"net/http"
	"sync"

	"github.com/rs/cors"
	"goji.io"
	"goji.io/pat"
	"golang.org/x/time/rate"

	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/render"
	"go.viam.com/rotviz/session"
	"go.viam.com/rotviz/state"
)

// APIPrefix is where the JSON API is mounted.
const APIPrefix = "/api/v1"

// Options configure a Service.
type Options struct {
	// Defaults are the settings new sessions start with, before URL parameters are applied.
	Defaults state.Settings
	// CORSAllowedOrigins lists the origins browsers may call the API from. Empty allows any.
	CORSAllowedOrigins []string
	Preview            render.Options
	// SessionRate limits how many sessions per second may be created, allowing bursts of
	// SessionBurst. Zero means no limit.
	SessionRate  rate.Limit
	SessionBurst int
}

// Service answers API requests against a session manager.
type Service struct {
	manager *session.Manager
	logger  logging.Logger

	mu      sync.RWMutex
	opts    Options
	limiter *rate.Limiter
}

// New returns a service backed by manager.
func New(manager *session.Manager, opts Options, logger logging.Logger) *Service {
	svc := &Service{
		manager: manager,
		logger:  logger,
		opts:    opts,
	}
	svc.SetSessionRate(opts.SessionRate, opts.SessionBurst)
	return svc
}

// SetSessionRate changes how many sessions per second may be created. A zero limit removes it.
// The new limit starts with a full burst.
func (svc *Service) SetSessionRate(limit rate.Limit, burst int) {
	if limit <= 0 {
		limit = rate.Inf
	}
	if burst < 1 && limit != rate.Inf {
		burst = int(math.Max(1, math.Ceil(float64(limit))))
	}
	svc.mu.Lock()
	svc.limiter = rate.NewLimiter(limit, burst)
	svc.mu.Unlock()
}

func (svc *Service) allowSession() bool {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.limiter.Allow()
}

// Defaults returns the settings new sessions start with.
func (svc *Service) Defaults() state.Settings {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.opts.Defaults
}

// SetDefaults changes the settings future sessions start with. Existing sessions keep theirs.
func (svc *Service) SetDefaults(settings state.Settings) {
	svc.mu.Lock()
	svc.opts.Defaults = settings
	svc.mu.Unlock()
}

func (svc *Service) previewOptions() render.Options {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.opts.Preview
}

// Handler returns the HTTP handler for the whole API.
func (svc *Service) Handler() http.Handler {
	return svc.initMux()
}

func (svc *Service) initMux() *goji.Mux {
	api := goji.SubMux()
	api.HandleFunc(pat.Post("/sessions"), svc.createSession)
	api.HandleFunc(pat.Get("/sessions/:id"), svc.getSession)
	api.HandleFunc(pat.Delete("/sessions/:id"), svc.deleteSession)
	api.HandleFunc(pat.Post("/sessions/:id/text"), svc.setText)
	api.HandleFunc(pat.Post("/sessions/:id/slider"), svc.setSlider)
	api.HandleFunc(pat.Post("/sessions/:id/settings"), svc.updateSettings)
	api.HandleFunc(pat.Post("/sessions/:id/reset"), svc.reset)
	api.HandleFunc(pat.Get("/sessions/:id/orientation"), svc.orientation)
	api.HandleFunc(pat.Post("/sessions/:id/orientation"), svc.setRotation)
	api.HandleFunc(pat.Post("/sessions/:id/apply"), svc.apply)
	api.HandleFunc(pat.Get("/sessions/:id/preview.png"), svc.preview)
	api.HandleFunc(pat.Get("/sessions/:id/link"), svc.link)
	api.HandleFunc(pat.Get("/convert"), svc.convert)
	api.HandleFunc(pat.Get("/schema"), svc.schema)

	var corsHandler *cors.Cors
	if len(svc.opts.CORSAllowedOrigins) == 0 {
		corsHandler = cors.AllowAll()
	} else {
		corsHandler = cors.New(cors.Options{
			AllowedOrigins: svc.opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", logging.DebugHeader},
		})
	}
	api.Use(corsHandler.Handler)

	mux := goji.NewMux()
	mux.Use(svc.debugMiddleware)
	mux.HandleFunc(pat.Get("/healthz"), svc.healthz)
	mux.Handle(pat.New(APIPrefix+"/*"), api)
	return mux
}

// debugMiddleware turns on debug logging for requests carrying DebugHeader.
func (svc *Service) debugMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key, ok := r.Header[http.CanonicalHeaderKey(logging.DebugHeader)]; ok {
			name := ""
			if len(key) > 0 {
				name = key[0]
			}
			r = r.WithContext(logging.EnableDebugMode(r.Context(), name))
		}
		svc.logger.CDebugw(r.Context(), "request", "method", r.Method, "path", r.URL.Path, "debug", logging.GetName(r.Context()))
		next.ServeHTTP(w, r)
	})
}
