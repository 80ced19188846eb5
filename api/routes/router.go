package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightcart/storefront-backend/api/controllers"
	"github.com/brightcart/storefront-backend/api/middleware"
	"github.com/brightcart/storefront-backend/internal/cart"
	"github.com/brightcart/storefront-backend/internal/catalog"
	checkoutsvc "github.com/brightcart/storefront-backend/internal/checkout"
	"github.com/brightcart/storefront-backend/internal/orders"
	"github.com/brightcart/storefront-backend/pkg/config"
	"github.com/brightcart/storefront-backend/pkg/db"
	"github.com/brightcart/storefront-backend/pkg/logger"
	pkgredis "github.com/brightcart/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	catalogService catalog.Service,
	cartStore cart.Store,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionContext(logg))
			r.Use(middleware.Idempotency(redisClient, cfg.Idempotency.CheckoutTTL, logg))

			cartController := controllers.NewCartController(cartStore, catalogService, logg)
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartController.Fetch)
				r.Delete("/", cartController.Clear)
				r.Post("/items", cartController.AddItem)
				r.Patch("/items/{productId}", cartController.UpdateItem)
				r.Delete("/items/{productId}", cartController.RemoveItem)
				r.Post("/merge", cartController.Merge)
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, cartStore, catalogService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			})
		})
	})

	return r
}
