package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Domenick1991/travelease/api"
	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/Domenick1991/travelease/internal/service/account"
	"github.com/Domenick1991/travelease/internal/service/admin"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/Domenick1991/travelease/internal/service/flights"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	openAPIFile     = "openapi.json"
	shutdownTimeout = 5 * time.Second
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Accounts account.AccountUseCase
	Bookings booking.BookingUseCase
	Flights  flights.FlightUseCase
	Admin    admin.AdminUseCase
	Tokens   api.TokenParser
	Users    api.UserLoader
}

// Run serves the API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, log logging.Logger) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg.HTTP, svc, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server listening", "address", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg config.HTTPConfig, svc Services, log logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log))
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", api.RequestIDHeader},
			ExposeHeaders:    []string{api.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.SwaggerDir != "" {
		registerSwagger(router, cfg.SwaggerDir)
	}

	authn := api.NewAuthenticator(svc.Tokens, svc.Users)
	requireUser := authn.Require()

	root := router.Group("/api")
	api.NewAuthHandler(svc.Accounts).Register(root, requireUser)
	api.NewFlightHandler(svc.Flights).Register(root.Group("/flights"))

	protected := root.Group("", requireUser)
	api.NewAccountHandler(svc.Accounts).Register(protected)
	api.NewBookingHandler(svc.Bookings).Register(protected.Group("/bookings"))

	adminGroup := protected.Group("/admin", api.RequireRole(domain.RoleAdmin))
	api.NewAdminHandler(svc.Admin, svc.Bookings).Register(adminGroup)

	return router
}

// registerSwagger serves the swagger UI at /swagger/index.html backed by the
// OpenAPI document found in dir.
func registerSwagger(router *gin.Engine, dir string) {
	ui := gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/" + openAPIFile)))
	doc := filepath.Join(dir, openAPIFile)

	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/"+openAPIFile {
			c.File(doc)
			return
		}
		ui(c)
	})
}
