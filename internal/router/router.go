package router

import (
	"context"
	"net/http"
	"time"

	"food-orders/internal/handler"
	"food-orders/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything the router wires together.
type Deps struct {
	Users          *handler.UserHandler
	Products       *handler.ProductHandler
	Orders         *handler.OrderHandler
	Verifier       middleware.TokenVerifier
	DB             Pinger
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// New creates a new HTTP router with all routes and middleware configured.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Outermost first: RequestID -> Recovery -> Logging -> CORS
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.Get("/health", health(d.DB))

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", d.Users.Register)
		r.Post("/users/login", d.Users.Login)

		r.Get("/products", d.Products.List)

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Verifier, d.Logger))

			r.Get("/", d.Orders.List)
			r.Post("/", d.Orders.Create)
			r.Put("/{id}", d.Orders.Update)
			r.Delete("/{id}", d.Orders.Delete)
			r.Get("/{id}/status", d.Orders.Status)
		})
	})

	return r
}

// health answers liveness probes. When a database is configured it must
// answer a ping within two seconds.
func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}
}
