package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	commonhttp "github.com/agencyhq/go-agency-ledger/internal/common/http"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

const readinessTimeout = 3 * time.Second

type healthHandler struct {
	checks map[string]Check
}

// New health handler will initialize the health/ resources endpoint
func New(app *echo.Group, checks map[string]Check) {
	hh := healthHandler{checks: checks}
	health := app.Group("/health")
	health.GET("", hh.healthCheck)
	health.GET("/ready", hh.readinessCheck)
}

type (
	DoHealthCheckLivenessResponse struct {
		Kind   string `json:"kind" example:"health"`
		Status string `json:"status" example:"server is up and running"`
	}

	DoHealthCheckReadinessResponse struct {
		Kind         string            `json:"kind" example:"readiness"`
		Status       string            `json:"status" example:"ready"`
		Dependencies map[string]string `json:"dependencies"`
	}
)

// healthCheck godoc
// @Summary 	Get the status of server
// @Description	Get the status of server
// @Tags Health
// @Produce		json
// @Success 200 {object} DoHealthCheckLivenessResponse
// @Router /health [get]
func (hh healthHandler) healthCheck(c echo.Context) error {
	return commonhttp.RestSuccessResponse(c, http.StatusOK, DoHealthCheckLivenessResponse{
		Kind:   "health",
		Status: "server is up and running",
	})
}

// readinessCheck godoc
// @Summary 	Check the dependencies of the server
// @Description	Pings postgres and redis
// @Tags Health
// @Produce		json
// @Success 200 {object} DoHealthCheckReadinessResponse
// @Failure 503 {object} DoHealthCheckReadinessResponse
// @Router /health/ready [get]
func (hh healthHandler) readinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	results := make(map[string]string, len(hh.checks))
	names := make([]string, 0, len(hh.checks))
	for name := range hh.checks {
		names = append(names, name)
	}

	checkErrs := make([]error, len(names))
	var eg errgroup.Group
	for i, name := range names {
		eg.Go(func() error {
			checkErrs[i] = hh.checks[name](ctx)
			return nil
		})
	}
	_ = eg.Wait()

	status, code := "ready", http.StatusOK
	for i, name := range names {
		if checkErrs[i] != nil {
			results[name] = checkErrs[i].Error()
			status, code = "not ready", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	return commonhttp.RestSuccessResponse(c, code, DoHealthCheckReadinessResponse{
		Kind:         "readiness",
		Status:       status,
		Dependencies: results,
	})
}
