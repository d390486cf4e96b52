package payment

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	commonhttp "github.com/agencyhq/go-agency-ledger/internal/common/http"
	"github.com/agencyhq/go-agency-ledger/internal/common/http/middleware"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/common/pagination"
	"github.com/agencyhq/go-agency-ledger/internal/common/validation"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/services"
)

type paymentHandler struct {
	conf       config.LedgerConfig
	paymentSvc services.PaymentService
	splitSvc   services.SplitEngine
}

// New payment handler will initialize the payments/ resources endpoint
func New(app *echo.Group, conf config.LedgerConfig, paymentSvc services.PaymentService, splitSvc services.SplitEngine, m middleware.AppMiddleware) {
	handler := paymentHandler{
		conf:       conf,
		paymentSvc: paymentSvc,
		splitSvc:   splitSvc,
	}
	api := app.Group("/payments")
	api.POST("", handler.createPayment, m.CheckIdempotentRequest())
	api.GET("", handler.listPayments)
	api.GET("/:id", handler.getPayment)
	api.PUT("/:id", handler.updatePayment)
	api.DELETE("/:id", handler.deletePayment)
	api.POST("/:id/process", handler.processPayment)
	api.POST("/:id/reverse", handler.reversePayment)
	api.POST("/:id/resplit", handler.resplitPayment)
}

// CreatePaymentResponse carries SplitError when the payment was saved but could not be split.
type CreatePaymentResponse struct {
	models.PaymentWithSplit
	SplitError *commonhttp.RestErrorResponseModel `json:"splitError,omitempty"`
}

// createPayment API create payment
// @Summary Create a payment and split it
// @Description Saves the payment and writes its company fund, finder fee and execution entries.
// @Description A split failure still answers 201 with splitError and the saved payment id,
// @Description retry the split with POST /v1/payments/{id}/process, not by repeating this request.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Idempotency-Key header string true "idempotency key"
// @Param body body models.PaymentRequest true "body"
// @Success 201 {object} CreatePaymentResponse
// @Failure 400 {object} http.RestErrorResponseModel
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 409 {object} http.RestErrorResponseModel
// @Failure 422 {object} http.RestErrorValidationResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payments [post]
func (h *paymentHandler) createPayment(c echo.Context) error {
	req := new(models.PaymentRequest)

	if err := c.Bind(req); err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	if err := validation.ValidateStruct(req); err != nil {
		return commonhttp.RestErrorValidationResponse(c, err)
	}

	ctx := c.Request().Context()
	res, err := h.paymentSvc.Create(ctx, *req)
	if err != nil {
		if res.Payment.ID == "" {
			return commonhttp.HandleServiceError(c, err)
		}

		// the payment is stored; report the split failure next to it
		log.Warn(ctx, "payment saved without split", log.String("paymentId", res.Payment.ID), log.Err(err))
		detail := commonhttp.ErrorModel(err)
		return commonhttp.RestSuccessResponse(c, http.StatusCreated, CreatePaymentResponse{
			PaymentWithSplit: res,
			SplitError:       &detail,
		})
	}

	return commonhttp.RestSuccessResponse(c, http.StatusCreated, CreatePaymentResponse{PaymentWithSplit: res})
}

// listPayments API list payments
// @Summary List payments
// @Tags Payments
// @Produce  json
// @Param projectId query string false "project id"
// @Param currency query string false "BDT or USD"
// @Param kind query string false "PAYMENT or PAYOUT"
// @Param paidFrom query string false "RFC3339 lower bound of paidAt"
// @Param paidTo query string false "RFC3339 upper bound of paidAt"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} http.RestTotalRowResponseModel
// @Failure 400 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payments [get]
func (h *paymentHandler) listPayments(c echo.Context) error {
	opts, err := pagination.Parse(c.QueryParam("limit"), c.QueryParam("offset"))
	if err == nil {
		opts, err = opts.Normalize(h.conf.DefaultPageSize, h.conf.MaxPageSize)
	}
	if err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	filter := models.PaymentFilter{
		ProjectID: c.QueryParam("projectId"),
		Currency:  c.QueryParam("currency"),
		Kind:      c.QueryParam("kind"),
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	}
	if filter.PaidFrom, err = parseTime(c.QueryParam("paidFrom")); err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}
	if filter.PaidTo, err = parseTime(c.QueryParam("paidTo")); err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	payments, total, err := h.paymentSvc.List(c.Request().Context(), filter)
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponseListWithTotalRows(c, payments, total)
}

// getPayment API get payment
// @Summary Get a payment with its ledger entries
// @Tags Payments
// @Produce  json
// @Param id path string true "payment id"
// @Success 200 {object} models.PaymentWithEntries
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payments/{id} [get]
func (h *paymentHandler) getPayment(c echo.Context) error {
	res, err := h.paymentSvc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusOK, res)
}

// updatePayment API update payment
// @Summary Update a payment and split it again
// @Description Reverses the current split, applies the change and splits again in one transaction
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param id path string true "payment id"
// @Param body body models.PaymentRequest true "body"
// @Success 200 {object} models.PaymentWithSplit
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 409 {object} http.RestErrorResponseModel
// @Failure 422 {object} http.RestErrorValidationResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payments/{id} [put]
func (h *paymentHandler) updatePayment(c echo.Context) error {
	req := new(models.PaymentRequest)

	if err := c.Bind(req); err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	if err := validation.ValidateStruct(req); err != nil {
		return commonhttp.RestErrorValidationResponse(c, err)
	}

	res, err := h.paymentSvc.Update(c.Request().Context(), c.Param("id"), *req)
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusOK, res)
}

// deletePayment API delete payment
// @Summary Delete a payment or payout
// @Description Reverses the split and removes the payment
// @Tags Payments
// @Param id path string true "payment id"
// @Success 204
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payments/{id} [delete]
func (h *paymentHandler) deletePayment(c echo.Context) error {
	if err := h.paymentSvc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// processPayment API process payment
// @Summary Split a stored payment
// @Tags Payments
// @Produce  json
// @Param id path string true "payment id"
// @Success 200 {object} models.SplitResult
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 409 {object} http.RestErrorResponseModel
// @Failure 422 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payments/{id}/process [post]
func (h *paymentHandler) processPayment(c echo.Context) error {
	res, err := h.splitSvc.Process(c.Request().Context(), c.Param("id"))
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusOK, res)
}

// reversePayment API reverse payment
// @Summary Remove the split of a payment
// @Description Subtracts every entry from the balances and deletes the entries. Reversing twice is a no-op.
// @Tags Payments
// @Param id path string true "payment id"
// @Success 204
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payments/{id}/reverse [post]
func (h *paymentHandler) reversePayment(c echo.Context) error {
	if err := h.splitSvc.Reverse(c.Request().Context(), c.Param("id")); err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// resplitPayment API resplit payment
// @Summary Split a payment again with the current team
// @Tags Payments
// @Produce  json
// @Param id path string true "payment id"
// @Success 200 {object} models.SplitResult
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 422 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/payments/{id}/resplit [post]
func (h *paymentHandler) resplitPayment(c echo.Context) error {
	res, err := h.paymentSvc.Resplit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusOK, res)
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "time must be RFC3339: "+s)
	}
	return &t, nil
}
