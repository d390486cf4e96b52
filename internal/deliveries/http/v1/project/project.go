package project

import (
	"net/http"

	"github.com/labstack/echo/v4"

	commonhttp "github.com/agencyhq/go-agency-ledger/internal/common/http"
	"github.com/agencyhq/go-agency-ledger/internal/common/pagination"
	"github.com/agencyhq/go-agency-ledger/internal/common/validation"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/services"
)

type projectHandler struct {
	conf       config.LedgerConfig
	projectSvc services.ProjectService
}

// New project handler will initialize the projects/ resources endpoint
func New(app *echo.Group, conf config.LedgerConfig, projectSvc services.ProjectService) {
	handler := projectHandler{conf: conf, projectSvc: projectSvc}
	api := app.Group("/projects")
	api.POST("", handler.createProject)
	api.GET("/:id", handler.getProject)
	api.PUT("/:id/members", handler.replaceMembers)
	api.GET("/:id/activities", handler.listActivities)
}

// createProject API create project
// @Summary Create a project with its team
// @Tags Projects
// @Accept  json
// @Produce  json
// @Param body body models.CreateProjectRequest true "body"
// @Success 201 {object} models.Project
// @Failure 400 {object} http.RestErrorResponseModel
// @Failure 422 {object} http.RestErrorValidationResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/projects [post]
func (h *projectHandler) createProject(c echo.Context) error {
	req := new(models.CreateProjectRequest)

	if err := c.Bind(req); err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	if err := validation.ValidateStruct(req); err != nil {
		return commonhttp.RestErrorValidationResponse(c, err)
	}

	res, err := h.projectSvc.Create(c.Request().Context(), *req)
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusCreated, res)
}

// getProject API get project
// @Summary Get a project with its team
// @Tags Projects
// @Produce  json
// @Param id path string true "project id"
// @Success 200 {object} models.Project
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/projects/{id} [get]
func (h *projectHandler) getProject(c echo.Context) error {
	res, err := h.projectSvc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusOK, res)
}

// replaceMembers API replace project members
// @Summary Replace the team of a project
// @Description Existing splits are kept; resplit a payment to apply the new shares
// @Tags Projects
// @Accept  json
// @Produce  json
// @Param id path string true "project id"
// @Param body body models.ReplaceMembersRequest true "body"
// @Success 200 {object} models.Project
// @Failure 404 {object} http.RestErrorResponseModel
// @Failure 422 {object} http.RestErrorValidationResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/projects/{id}/members [put]
func (h *projectHandler) replaceMembers(c echo.Context) error {
	req := new(models.ReplaceMembersRequest)

	if err := c.Bind(req); err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	if err := validation.ValidateStruct(req); err != nil {
		return commonhttp.RestErrorValidationResponse(c, err)
	}

	res, err := h.projectSvc.ReplaceMembers(c.Request().Context(), c.Param("id"), *req)
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponse(c, http.StatusOK, res)
}

// listActivities API list project activities
// @Summary List the activity log of a project, newest first
// @Tags Projects
// @Produce  json
// @Param id path string true "project id"
// @Param limit query int false "number of lines"
// @Success 200 {object} http.RestTotalRowResponseModel
// @Failure 400 {object} http.RestErrorResponseModel
// @Failure 500 {object} http.RestErrorResponseModel
// @Router /v1/projects/{id}/activities [get]
func (h *projectHandler) listActivities(c echo.Context) error {
	opts, err := pagination.Parse(c.QueryParam("limit"), "")
	if err == nil {
		opts, err = opts.Normalize(h.conf.DefaultPageSize, h.conf.MaxPageSize)
	}
	if err != nil {
		return commonhttp.RestErrorResponse(c, http.StatusBadRequest, err)
	}

	logs, err := h.projectSvc.ListActivities(c.Request().Context(), c.Param("id"), opts.Limit)
	if err != nil {
		return commonhttp.HandleServiceError(c, err)
	}

	return commonhttp.RestSuccessResponseListWithTotalRows(c, logs, len(logs))
}
