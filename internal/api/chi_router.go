// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/taptodine/internal/middleware"
	"github.com/tomtom215/taptodine/internal/session"
	"github.com/tomtom215/taptodine/internal/tenant"
)

// slowRequestThreshold marks requests logged at warn level.
const slowRequestThreshold = 2 * time.Second

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	resolver      *tenant.Resolver
	sessions      *session.Manager
	staticDir     string
}

// NewRouter creates a Router. staticDir may be empty.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, resolver *tenant.Resolver, sessions *session.Manager, staticDir string) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	if resolver == nil {
		resolver = tenant.NewResolver()
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
		resolver:      resolver,
		sessions:      sessions,
		staticDir:     staticDir,
	}
}

// SetupChi configures all HTTP routes. The tenant resolver wraps the whole
// router so local-host path prefixes are stripped before routing.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(router.chiMiddleware.CORS()) // must be global to handle OPTIONS preflight

	h := router.handler
	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.With(router.chiMiddleware.RateLimitHealth()).Get("/health", h.Health)

		// Tenant catalogue, shared by every visitor of a tenant
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chimiddleware.Compress(5))
			r.Get("/menu", h.Menu)
			r.Get("/orders", h.Orders)
			r.Get("/config", h.ClientConfig)
		})

		// Visitor store surface
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.sessions.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.Compress(5))
				r.Get("/store", h.StoreState)
				r.Post("/store/menu", h.RefreshMenu)
				r.Post("/store/orders", h.RefreshOrders)
				r.Post("/store/orders/add", h.AddOrder)

				r.Post("/cart/items", h.AddCartItem)
				r.Put("/cart/items/{id}", h.UpdateCartItem)
				r.Delete("/cart/items/{id}", h.RemoveCartItem)
				r.Delete("/cart", h.ClearCart)

				r.With(router.chiMiddleware.RateLimitCheckout()).Post("/create-checkout-session", h.CreateCheckoutSession)
				r.Post("/checkout/complete", h.CompleteCheckout)
			})

			r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", h.WebSocket)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, http.StatusNotFound, "Not found", nil)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	if router.staticDir != "" {
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5))
			r.Get("/*", router.serveStaticOrIndex)
		})
	}

	return router.resolver.Middleware(r)
}

// serveStaticOrIndex serves files of the UI bundle, falling back to
// index.html so client-side routes such as /cart load the app.
func (router *Router) serveStaticOrIndex(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + r.URL.Path)

	switch {
	case strings.HasPrefix(p, "/_next/") || strings.HasSuffix(p, ".js") || strings.HasSuffix(p, ".css"):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case strings.HasSuffix(p, ".png") || strings.HasSuffix(p, ".svg") || strings.HasSuffix(p, ".jpg") || strings.HasSuffix(p, ".webp"):
		w.Header().Set("Cache-Control", "public, max-age=604800")
	}

	if p != "/" && router.fileExists(p) {
		http.FileServer(http.Dir(router.staticDir)).ServeHTTP(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeFile(w, r, filepath.Join(router.staticDir, "index.html"))
}

// fileExists checks if a file exists
func (router *Router) fileExists(p string) bool {
	info, err := os.Stat(filepath.Join(router.staticDir, filepath.FromSlash(p)))
	return err == nil && !info.IsDir()
}
