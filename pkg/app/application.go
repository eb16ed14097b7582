package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"reservo/pkg/config"
	"reservo/pkg/contracts"
	"reservo/pkg/middleware"
)

const idempotencyHeader = "Idempotency-Key"

// Application wires a service's handlers into an HTTP server with the shared
// middleware chain and owns its lifecycle.
type Application struct {
	cfg       *config.Config
	server    *http.Server
	limiter   *middleware.ProjectRateLimiter
	idemStore *middleware.InMemoryIdempotencyStore
}

func NewApplication(cfg *config.Config, handlers ...contracts.Handler) *Application {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	router.GET("/health", HealthCheck(cfg))

	limiter := middleware.NewProjectRateLimiter(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		middleware.DefaultProjectExtractor,
		cfg.Log,
	)
	idemStore := middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)

	// Outermost first: recovery wraps everything, the timeout sits closest
	// to the handlers so the slow part is what gets cut off.
	chain := buildChain(router,
		middleware.Recovery(cfg.Log),
		middleware.RequestLogging(cfg.Log),
		middleware.MaxRequestSize(int64(cfg.MaxRequestSize)),
		middleware.ContentTypeValidation(cfg.Log),
		middleware.ProjectRateLimit(limiter),
		middleware.Idempotency(idemStore, idempotencyHeader),
		middleware.RequestTimeout(cfg.RequestTimeout),
	)

	return &Application{
		cfg: cfg,
		server: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      chain,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		limiter:   limiter,
		idemStore: idemStore,
	}
}

func buildChain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests within the
// configured shutdown timeout.
func (a *Application) Run() {
	log := a.cfg.Log

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", a.server.Addr)
		serverErr <- a.server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	case sig := <-stop:
		log.Info("Shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
		}
	}

	a.limiter.Stop()
	a.idemStore.Stop()
	a.cfg.GracefulShutdown()
	log.Info("Shutdown complete")
}
