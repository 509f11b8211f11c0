package service

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/racketdesk/stringdesk/internal/config/db"
	"github.com/racketdesk/stringdesk/internal/handlers"
	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
	"github.com/racketdesk/stringdesk/internal/repository"
)

const shutdownTimeout = 5 * time.Second

type ServerService struct {
	Server *http.Server
	db     *db.DB
}

func NewServerService(rootContext context.Context, address string, db *db.DB) ServerService {
	server := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return rootContext
		},
	}
	return ServerService{Server: server, db: db}
}

func (serverService *ServerService) SetRouter() {
	orderRepository := repository.NewOrderRepository(serverService.db)
	serverService.Server.Handler = NewRouter(orderRepository, serverService.ping)
}

// NewRouter mounts the order API under /api. The kiosk runs in a browser on
// another origin, so CORS is open for the methods the API serves.
func NewRouter(orders repository.OrderStorageRepositoryI, ping func(ctx context.Context) error) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(logger.RequestLogger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	orderHandler := handlers.NewOrderHandler(orders)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			if ping != nil {
				if err := ping(r.Context()); err != nil {
					http.Error(w, "database is unavailable", http.StatusServiceUnavailable)
					return
				}
			}
			w.WriteHeader(http.StatusOK)
		})

		r.Get("/orders", orderHandler.GetOrders)
		r.Post("/orders", orderHandler.Add)
		r.Patch("/orders/{id}", orderHandler.Patch)
		r.Delete("/orders/{id}", orderHandler.Delete)
	})

	return router
}

func (serverService *ServerService) ping(ctx context.Context) error {
	return serverService.db.Pool.Ping(ctx)
}

func (serverService *ServerService) RunServer(serverErr chan<- error) {
	if err := serverService.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		serverErr <- err
	} else {
		serverErr <- nil
	}
}

func (serverService *ServerService) Shutdown() error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if shutdownErr := serverService.Server.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	return nil
}
