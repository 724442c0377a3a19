package http

import (
	"net/http"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/internal/view"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Router struct {
	router *chi.Mux
	cfg    *cfg.SlotCfg
	logger logger.Logger
}

func NewRouter(router *chi.Mux, cfg *cfg.SlotCfg, logger logger.Logger) *Router {
	return &Router{router: router, cfg: cfg, logger: logger}
}

func (r *Router) Init(opener usecase.CartOpener, tmpl *view.Templates, stepper view.Stepper) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)
	r.router.Use(requestLogger(r.logger))

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	})

	r.router.Group(func(s chi.Router) {
		s.Use(sessionMiddleware(r.cfg))

		registerPageRoutes(s, NewPageHandler(opener, tmpl, stepper, r.logger))

		s.Route("/api/v1", func(v1 chi.Router) {
			registerCartRoutes(v1, NewCartHandler(opener, stepper, r.logger))
		})
	})
}

func registerPageRoutes(router chi.Router, h *PageHandler) {
	router.Get("/", h.productPage)
	router.Route("/cart", func(c chi.Router) {
		c.Get("/", h.cartPage)
		c.Post("/items", h.addToCart)
		c.Post("/buy-now", h.buyNow)
		c.Post("/recommended", h.addRecommended)
		c.Post("/items/{id}/quantity", h.updateQuantity)
		c.Post("/items/{id}/delete", h.removeItem)
		c.Post("/clear", h.clearCart)
		c.Post("/checkout", h.checkout)
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(c chi.Router) {
		c.Get("/", h.getCart)
		c.Delete("/", h.clearCart)
		c.Get("/badge", h.badge)
		c.Post("/checkout", h.checkout)
		c.Post("/stepper", h.step)
		c.Post("/items", h.addItem)
		c.Patch("/items/{id}", h.updateQuantity)
		c.Delete("/items/{id}", h.removeItem)
	})
}
