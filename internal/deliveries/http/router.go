package http

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/agencyhq/go-agency-ledger/internal/common/graceful"
	commonhttp "github.com/agencyhq/go-agency-ledger/internal/common/http"
	"github.com/agencyhq/go-agency-ledger/internal/common/http/middleware"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/deliveries/http/health"
	v1balance "github.com/agencyhq/go-agency-ledger/internal/deliveries/http/v1/balance"
	v1payment "github.com/agencyhq/go-agency-ledger/internal/deliveries/http/v1/payment"
	v1payout "github.com/agencyhq/go-agency-ledger/internal/deliveries/http/v1/payout"
	v1project "github.com/agencyhq/go-agency-ledger/internal/deliveries/http/v1/project"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
	"github.com/agencyhq/go-agency-ledger/internal/services"

	// for swagger docs
	_ "github.com/agencyhq/go-agency-ledger/docs"
)

type svc struct {
	e               *echo.Echo
	addr            string
	gracefulTimeout time.Duration
}

var _ graceful.ProcessStartStopper = (*svc)(nil)

func (s *svc) Start() graceful.ProcessStarter {
	return func() error {
		if err := s.e.Start(s.addr); err != nil && err != nethttp.ErrServerClosed {
			return err
		}
		return nil
	}
}

func (s *svc) Stop() graceful.ProcessStopper {
	return func(ctx context.Context) error {
		err := s.e.Shutdown(ctx)

		if err != nil {
			log.Errorf(ctx, "[SHUTDOWN] HTTP server error: %v", err)
		} else {
			log.Info(ctx, "[SHUTDOWN] HTTP server stopped successfully")
		}

		return err
	}
}

// Handler exposes the router, used by tests.
func (s *svc) Handler() nethttp.Handler {
	return s.e
}

// Dependencies is everything the HTTP server routes to.
type Dependencies struct {
	Config       config.Config
	NewRelic     *newrelic.Application
	CacheRepo    repositories.CacheRepository
	Registerer   prometheus.Registerer
	HealthChecks map[string]health.Check

	SplitEngine    services.SplitEngine
	PaymentService services.PaymentService
	PayoutService  services.PayoutService
	BalanceService services.BalanceService
	ProjectService services.ProjectService
}

// @title Agency Ledger API
// @version 1.0
// @description Payment split ledger: company fund, finder fee and team execution pool.

// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey InternalAuth
// @in header
// @name X-Secret-Key
func NewHTTPServer(deps Dependencies) *svc {
	conf := deps.Config
	app := echo.New()
	app.HideBanner = true

	svc := &svc{
		e:               app,
		addr:            fmt.Sprintf(":%d", conf.App.HTTPPort),
		gracefulTimeout: conf.App.GracefulTimeout,
	}

	if conf.App.HTTPTimeout > 0 {
		app.Server.ReadTimeout = conf.App.HTTPTimeout
		app.Server.WriteTimeout = conf.App.HTTPTimeout
	}

	m := middleware.NewMiddleware(conf, deps.CacheRepo)
	app.Pre(echomiddleware.RemoveTrailingSlash())
	app.Use(echomiddleware.Recover())
	app.Use(echomiddleware.RequestID())
	app.Use(m.Context())
	app.Use(m.Logger())

	if deps.NewRelic != nil {
		app.Use(nrecho.Middleware(deps.NewRelic))

		app.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
					txn.AddAttribute("x-correlation-id", log.CorrelationID(c.Request().Context()))
				}
				return next(c)
			}
		})
	}

	// Endpoint debug/pprof/
	if config.StringToEnvironment(conf.App.Env) != config.PROD_ENV {
		pprof.Register(app)
	}

	promConf := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	handlerConf := echoprometheus.HandlerConfig{}
	if deps.Registerer != nil {
		promConf.Registerer = deps.Registerer
		if gatherer, ok := deps.Registerer.(prometheus.Gatherer); ok {
			handlerConf.Gatherer = gatherer
		}
	}
	app.Use(echoprometheus.NewMiddlewareWithConfig(promConf))
	app.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerConf))

	app.GET("/swagger/*", echoSwagger.WrapHandler)

	apiGroup := app.Group("/api")
	health.New(apiGroup, deps.HealthChecks)

	v1Group := apiGroup.Group("/v1")
	v1Group.Use(m.InternalAuth())
	v1payment.New(v1Group, conf.Ledger, deps.PaymentService, deps.SplitEngine, m)
	v1payout.New(v1Group, deps.PayoutService, m)
	v1balance.New(v1Group, conf.Ledger, deps.BalanceService)
	v1project.New(v1Group, conf.Ledger, deps.ProjectService)

	app.Any("*", func(c echo.Context) error {
		errorMessage := fmt.Errorf("route '%s' does not exist in this API", c.Request().URL)
		return commonhttp.RestErrorResponse(c, nethttp.StatusNotFound, errorMessage)
	})

	return svc
}
