package balance

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	commonhttp "github.com/agencyhq/go-agency-ledger/internal/common/http"
	"github.com/agencyhq/go-agency-ledger/internal/common/pagination"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/services"
)

type balanceHandler struct {
	conf       config.LedgerConfig
	balanceSvc services.BalanceService
}

func New(app *echo.Group, conf config.LedgerConfig, balanceSvc services.BalanceService) {
	handler := balanceHandler{conf: conf, balanceSvc: balanceSvc}
	api := app.Group("/balances")
	api.GET("", handler.listBalances)
	api.GET("/:userId", handler.getUserLedger)
}

// listBalances API list balances
// @Summary List user balances
// @Tags Balances
// @Produce  json
// @Param userIds query string false "comma separated user ids"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} http.RestTotalRowResponseModel
// @Failure 400 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/balances [get]
func (h *balanceHandler) listBalances(c echo.Context) error {
	opts, err := pagination.Parse(c.QueryParam("limit"), c.QueryParam("offset"))
	if err == nil {
		opts, err = opts.Normalize(h.conf.DefaultPageSize, h.conf.MaxPageSize)
	}
	if err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	filter := models.BalanceFilter{Limit: opts.Limit, Offset: opts.Offset}
	if ids := c.QueryParam("userIds"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.UserIDs = append(filter.UserIDs, id)
			}
		}
	}

	balances, total, err := h.balanceSvc.List(c.Request().Context(), filter)
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponseListWithTotalRows(c, balances, total)
}

// getUserLedger API get user ledger
// @Summary Get a user's balance and ledger entries
// @Tags Balances
// @Produce  json
// @Param userId path string true "user id"
// @Success 200 {object} models.UserLedger
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/balances/{userId} [get]
func (h *balanceHandler) getUserLedger(c echo.Context) error {
	res, err := h.balanceSvc.GetUserLedger(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusOK, res)
}
