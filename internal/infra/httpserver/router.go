package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appscans "github.com/bryanwahyu/safelink/internal/application/scans"
	"github.com/bryanwahyu/safelink/internal/application/view"
	domain "github.com/bryanwahyu/safelink/internal/domain/linkscan"
	"github.com/bryanwahyu/safelink/internal/middleware"
)

// Options carries the cross-cutting settings of the HTTP surface
type Options struct {
	AllowedOrigins []string
	APIKey         string
	Limiter        *middleware.RateLimiter
	Metrics        *middleware.Metrics
	Checkers       map[string]middleware.HealthChecker
	Setup          middleware.ScanSetup
	// Feed is the websocket handler; nil disables /v1/ws
	Feed http.Handler
}

type Router struct {
	scansSvc *appscans.Service
	viewsSvc *view.Service
	metrics  *middleware.Metrics
}

func NewRouter(scansSvc *appscans.Service, viewsSvc *view.Service, opts Options) http.Handler {
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	r := &Router{scansSvc: scansSvc, viewsSvc: viewsSvc, metrics: opts.Metrics}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(opts.Metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RateLimitMiddleware(opts.Limiter))

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.Setup, opts.Checkers))

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(opts.APIKey))

		rt.Get("/metrics", opts.Metrics.Handler)

		rt.Route("/v1", func(rt chi.Router) {
			rt.Post("/scan", r.wrap(r.handleScan))
			rt.Get("/result", r.wrap(r.handleResult))

			rt.Post("/views", r.wrap(r.handleOpenView))
			rt.Get("/views/{id}", r.wrap(r.handleGetView))
			rt.Post("/views/{id}/toggle/{region}", r.wrap(r.handleToggle))
			rt.Delete("/views/{id}", r.wrap(r.handleCloseView))

			if opts.Feed != nil {
				rt.Get("/ws", opts.Feed.ServeHTTP)
			}
		})
	})

	return mux
}

// badRequest marks input errors so wrap answers 400
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var bad badRequest
			switch {
			case errors.As(err, &bad), errors.Is(err, view.ErrUnknownRegion):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, view.ErrNotFound), errors.Is(err, domain.ErrSlotEmpty):
				http.Error(w, err.Error(), http.StatusNotFound)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/scan
// Body: {"url": "<link>"}
// Runs one scan and answers with the outcome, including fallback results.
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest{err}
	}
	link := middleware.SanitizeString(body.URL)
	if err := middleware.ValidateLinkURL(link); err != nil {
		return badRequest{err}
	}

	// a dispatched scan runs to completion even if the caller goes away
	ctx := context.WithoutCancel(req.Context())

	r.metrics.ScanStarted()
	out, err := r.scansSvc.Scan(ctx, link)
	r.metrics.ScanFinished(string(out.Verdict.Label), err != nil || out.Failed())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, out)
}

// GET /v1/result
func (r *Router) handleResult(w http.ResponseWriter, req *http.Request) error {
	rec, err := r.scansSvc.Latest(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

// POST /v1/views
// Body (optional): {"width": 400, "height": 250}
func (r *Router) handleOpenView(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if req.ContentLength != 0 {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return badRequest{err}
		}
	}
	sess, err := r.viewsSvc.Open(req.Context(), domain.Window{Width: body.Width, Height: body.Height})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, sess)
}

// GET /v1/views/{id}
// ?format=text renders the same view as plain text.
func (r *Router) handleGetView(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	sess, err := r.viewsSvc.Get(id)
	if err != nil {
		return err
	}
	if req.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		return view.WriteText(w, sess.State)
	}
	return writeJSON(w, http.StatusOK, sess)
}

// POST /v1/views/{id}/toggle/{region}
func (r *Router) handleToggle(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	region := view.RegionName(chi.URLParam(req, "region"))
	sess, changed, err := r.viewsSvc.Toggle(id, region)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"changed": changed,
		"view":    sess,
	})
}

// DELETE /v1/views/{id}
func (r *Router) handleCloseView(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	if err := r.viewsSvc.Close(id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func sessionID(req *http.Request) (string, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		return "", badRequest{err}
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
