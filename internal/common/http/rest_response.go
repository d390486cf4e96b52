package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/labstack/echo/v4"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
)

type (
	RestErrorResponseModel struct {
		Status  string `json:"status" example:"error"`
		Code    any    `json:"code"`
		Message string `json:"message" example:"error"`
	}

	RestTotalRowResponseModel struct {
		Kind      string `json:"kind" example:"collection"`
		Contents  any    `json:"contents"`
		TotalRows int    `json:"total_rows" example:"100"`
	}

	RestErrorValidationResponseModel struct {
		Status  string `json:"status" example:"error"`
		Message string `json:"message" example:"validation error"`
		Errors  any    `json:"errors"`
	}
)

func RestSuccessResponse(c echo.Context, code int, in any) error {
	return c.JSON(code, in)
}

func RestSuccessResponseListWithTotalRows(c echo.Context, data any, totalRows int) error {
	return c.JSON(http.StatusOK, RestTotalRowResponseModel{
		Kind:      "collection",
		Contents:  data,
		TotalRows: totalRows,
	})
}

// RestErrorResponse writes err with statusCode. Coded errors and echo errors keep their
// own code and message.
func RestErrorResponse(c echo.Context, statusCode int, err error) error {
	res := RestErrorResponseModel{
		Status:  "error",
		Code:    statusCode,
		Message: err.Error(),
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		res.Code = echoErr.Code
		res.Message = fmt.Sprint(echoErr.Message)
	}

	var detail models.ErrorDetail
	if errors.As(err, &detail) {
		res.Code = detail.Code
		res.Message = detail.ErrorMessage.Error()
	}

	return c.JSON(statusCode, res)
}

func RestErrorValidationResponse(c echo.Context, err error) error {
	res := RestErrorValidationResponseModel{
		Status:  "error",
		Message: common.ErrValidation.Error(),
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		res.Errors = merr.Errors
	} else if err != nil {
		res.Errors = []string{err.Error()}
	}

	return c.JSON(http.StatusUnprocessableEntity, res)
}
