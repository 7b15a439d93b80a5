package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Deps struct {
	Catalog        *CatalogHandler
	Cart           *CartHandler
	Checkout       *CheckoutHandler
	RequestTimeout time.Duration
}

func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(CartSessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", deps.Catalog.GetCategories)
		r.Get("/produce", deps.Catalog.GetProduceList)
		r.Get("/produce/{id}", deps.Catalog.GetProduceDetail)
		r.Get("/testimonials", deps.Catalog.GetTestimonials)
		r.Get("/media", deps.Catalog.GetMedia)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{produce_id}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{produce_id}", deps.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", deps.Checkout.InitiateCheckout)
			r.Get("/{id}", deps.Checkout.GetCheckoutStatus)
		})
	})

	return r
}
