package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/modules/repo"
	"github.com/folio-works/portfolio/internal/modules/serializer"
	"github.com/folio-works/portfolio/internal/modules/service"
	"github.com/folio-works/portfolio/internal/pkg/validate"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type ViewsResp struct {
	Views int `json:"views"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	Return every project in storage order
//	@Tags			project
//	@Produce		json
//	@Success		200	{array}		model.Project
//	@Failure		500	{object}	serializer.Response
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetProject godoc
//
//	@Summary	Get project
//	@Tags		project
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	model.Project
//	@Failure	404	{object}	serializer.Response
//	@Router		/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// RecordView godoc
//
//	@Summary		Record a project view
//	@Description	Atomically increment the view counter and return the new value
//	@Tags			project
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	handler.ViewsResp
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{id}/views [post]
func (h *ProjectHandler) RecordView(c *gin.Context) {
	views, err := h.svc.RecordView(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ViewsResp{Views: views})
}

// CreateProject godoc
//
//	@Summary	Create project
//	@Tags		project
//	@Accept		json
//	@Produce	json
//	@Param		payload	body	model.ProjectInput	true	"CreateProject payload"
//	@Security	SessionCookie
//	@Success	201	{object}	model.Project
//	@Failure	400	{object}	serializer.Response
//	@Failure	401	{object}	serializer.Response
//	@Router		/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	in, ok := bindProject(c)
	if !ok {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Replace every field except id and views
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"Project ID"
//	@Param			payload	body	model.ProjectInput	true	"UpdateProject payload"
//	@Security		SessionCookie
//	@Success		200	{object}	model.Project
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{id} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	in, ok := bindProject(c)
	if !ok {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProject godoc
//
//	@Summary	Delete project
//	@Tags		project
//	@Produce	json
//	@Param		id	path	string	true	"Project ID"
//	@Security	SessionCookie
//	@Success	200	{object}	serializer.Response
//	@Failure	404	{object}	serializer.Response
//	@Router		/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Code: http.StatusOK, Msg: "project deleted"})
}

// ListCategories godoc
//
//	@Summary	List project categories
//	@Tags		project
//	@Produce	json
//	@Success	200	{array}	string
//	@Router		/categories [get]
func (h *ProjectHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, model.ProjectCategories)
}

func (h *ProjectHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		c.JSON(http.StatusNotFound, serializer.NotFound("project not found"))
		return
	}
	c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
}

func bindProject(c *gin.Context) (model.ProjectInput, bool) {
	var in model.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		if fields, ok := validate.FieldErrors(err); ok {
			c.JSON(http.StatusBadRequest, serializer.ValidationErr(fields))
		} else {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		}
		return in, false
	}
	return in, true
}
