package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/middleware"
	"github.com/gin-gonic/gin"
)

type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

func newProjectHandler(ps portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{projectService: ps}
}

// registerProjectRoutes registers routes related to projects.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade) {
	h := newProjectHandler(projectService)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:projectID", h.getProject)
		projects.PATCH("/:projectID", h.updateProject)
	}
}

// createProject godoc
// @Summary Register a project
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} domain.Project
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Project code already exists"
// @Failure 500 {object} ErrorResponse "Failed to create project"
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create project")
		return
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID), slog.String("code", project.Code))
	c.JSON(http.StatusCreated, project)
}

// getProject godoc
// @Summary Get a project
// @Tags projects
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} domain.Project
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve project"
// @Security BearerAuth
// @Router /projects/{projectID} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	project, err := h.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, logger.With(slog.String("project_id", projectID)), err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// listProjects godoc
// @Summary List projects
// @Tags projects
// @Produce  json
// @Param   status query string false "Status filter"
// @Param   customerID query string false "Customer filter"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListProjectsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list projects"
// @Security BearerAuth
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListProjectsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, dto.ListProjectsResponse{Projects: projects})
}

// updateProject godoc
// @Summary Update a project
// @Description Changing the status to COMPLETED posts the budget as revenue
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   project body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} dto.ProjectResult
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Failure 409 {object} ErrorResponse "Project already closed"
// @Failure 422 {object} ErrorResponse "Posting account not configured"
// @Failure 500 {object} ErrorResponse "Failed to update project"
// @Security BearerAuth
// @Router /projects/{projectID} [patch]
func (h *projectHandler) updateProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("project_id", projectID))
	res, err := h.projectService.UpdateProject(c.Request.Context(), projectID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update project")
		return
	}

	logger.Info("Project updated", slog.String("status", string(res.Project.Status)), slog.Bool("revenue_posted", res.JournalEntry != nil))
	c.JSON(http.StatusOK, res)
}
