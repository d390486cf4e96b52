package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
)

type errorMapping struct {
	target error
	status int
	key    string
}

// Checked in order. ErrTransactionFailure wraps its cause, so domain errors come first.
var errorMappings = []errorMapping{
	{common.ErrPaymentNotFound, http.StatusNotFound, models.ErrKeyPaymentNotFound},
	{common.ErrProjectNotFound, http.StatusNotFound, models.ErrKeyProjectNotFound},
	{common.ErrDataNotFound, http.StatusNotFound, models.ErrKeyDataNotFound},
	{common.ErrInvalidPaymentState, http.StatusUnprocessableEntity, models.ErrKeyInvalidPaymentState},
	{common.ErrUnsupportedCurrency, http.StatusUnprocessableEntity, models.ErrKeyCurrencyOneof},
	{common.ErrDuplicateMember, http.StatusUnprocessableEntity, models.ErrKeyMembersUnique},
	{common.ErrAlreadyProcessed, http.StatusConflict, models.ErrKeyAlreadyProcessed},
	{common.ErrInsufficientBalance, http.StatusConflict, models.ErrKeyInsufficientBalance},
	{common.ErrPayoutImmutable, http.StatusConflict, models.ErrKeyPayoutImmutable},
	{common.ErrTransactionFailure, http.StatusInternalServerError, models.ErrKeyTransactionFailure},
}

// StatusFromError returns the HTTP status for a service error.
func StatusFromError(err error) int {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// HandleServiceError writes a service error as a coded error response.
func HandleServiceError(c echo.Context, err error) error {
	if errors.Is(err, common.ErrValidation) {
		return RestErrorValidationResponse(c, err)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return RestErrorResponse(c, m.status, models.GetErrMap(m.key))
		}
	}
	return RestErrorResponse(c, http.StatusInternalServerError, err)
}

// ErrorModel is the body HandleServiceError would write for err.
func ErrorModel(err error) RestErrorResponseModel {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			detail := models.GetErrMap(m.key)
			return RestErrorResponseModel{Status: "error", Code: detail.Code, Message: detail.ErrorMessage.Error()}
		}
	}
	return RestErrorResponseModel{Status: "error", Code: http.StatusInternalServerError, Message: err.Error()}
}
