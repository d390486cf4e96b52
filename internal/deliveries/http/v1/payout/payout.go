package payout

import (
	"net/http"

	"github.com/labstack/echo/v4"

	commonhttp "github.com/agencyhq/go-agency-ledger/internal/common/http"
	"github.com/agencyhq/go-agency-ledger/internal/common/http/middleware"
	"github.com/agencyhq/go-agency-ledger/internal/common/validation"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/services"
)

type payoutHandler struct {
	payoutSvc services.PayoutService
}

func New(app *echo.Group, payoutSvc services.PayoutService, m middleware.AppMiddleware) {
	handler := payoutHandler{payoutSvc: payoutSvc}
	api := app.Group("/payouts")
	api.POST("", handler.createPayout, m.CheckIdempotentRequest())
}

// createPayout API record payout
// @Summary Record a manual payout
// @Description Takes the amount off the user's balance and stores it as a negative payment with one execution entry
// @Tags Payouts
// @Accept  json
// @Produce  json
// @Param X-Idempotency-Key header string true "idempotency key"
// @Param body body models.CreatePayoutRequest true "body"
// @Success 201 {object} models.Payout
// @Failure 400 {object} http.RestErrorResponseModel
// @Failure 409 {object} http.RestErrorResponseModel
// @Failure 422 {object} http.RestErrorValidationResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payouts [post]
func (h *payoutHandler) createPayout(c echo.Context) error {
	req := new(models.CreatePayoutRequest)

	if err := c.Bind(req); err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	if err := validation.ValidateStruct(req); err != nil {
		return commonhttp.RestErrorValidationResponse(c, err)
	}

	res, err := h.payoutSvc.Create(c.Request().Context(), *req)
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusCreated, res)
}
