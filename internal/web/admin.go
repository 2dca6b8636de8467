package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/modules/repo"
	"github.com/folio-works/portfolio/internal/pkg/validate"
)

func (h *Handler) Dashboard(c *gin.Context) {
	items, err := h.d.Projects.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin", gin.H{"Title": "Dashboard", "Projects": items})
}

func (h *Handler) NewProjectForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", projectForm{Category: model.DefaultCategory}, nil, "")
}

func (h *Handler) CreateProject(c *gin.Context) {
	form, in, fields := bindProjectForm(c)
	if fields != nil {
		h.renderForm(c, http.StatusBadRequest, "", form, fields, "")
		return
	}
	if _, err := h.d.Projects.Create(c.Request.Context(), in); err != nil {
		h.renderForm(c, http.StatusInternalServerError, "", form, nil, "The project could not be saved. Nothing was changed.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?notice=created")
}

func (h *Handler) EditProjectForm(c *gin.Context) {
	p, ok := h.loadProject(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, p.ID, formFrom(p), nil, "")
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	form, in, fields := bindProjectForm(c)
	if fields != nil {
		h.renderForm(c, http.StatusBadRequest, id, form, fields, "")
		return
	}
	if _, err := h.d.Projects.Update(c.Request.Context(), id, in); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.renderForm(c, http.StatusInternalServerError, id, form, nil, "The project could not be saved. Nothing was changed.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?notice=updated")
}

func (h *Handler) DeleteConfirm(c *gin.Context) {
	p, ok := h.loadProject(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "admin_delete", gin.H{"Title": "Delete project", "Project": p})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.d.Projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?notice=deleted")
}

func (h *Handler) loadProject(c *gin.Context) (*model.Project, bool) {
	p, err := h.d.Projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.notFound(c)
		} else {
			h.serverError(c, err)
		}
		return nil, false
	}
	return p, true
}

func (h *Handler) renderForm(c *gin.Context, status int, id string, form projectForm, fields map[string]string, errMsg string) {
	title := "New project"
	action := "/admin/projects/new"
	if id != "" {
		title = "Edit project"
		action = "/admin/projects/" + id + "/edit"
	}
	h.render(c, status, "admin_form", gin.H{
		"Title":      title,
		"Action":     action,
		"Form":       form,
		"Fields":     fields,
		"Error":      errMsg,
		"Categories": categoryOptions(),
	})
}

// bindProjectForm parses and validates the admin form. fields is nil when the input is valid.
func bindProjectForm(c *gin.Context) (projectForm, model.ProjectInput, map[string]string) {
	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		return form, model.ProjectInput{}, map[string]string{"form": "The form could not be read."}
	}
	in := form.input()

	fields := map[string]string{}
	if err := validate.Struct(in); err != nil {
		if fe, ok := validate.FieldErrors(err); ok {
			fields = fe
		} else {
			fields["form"] = err.Error()
		}
	}
	if len(in.TechStack) == 0 {
		fields["techStack"] = "Add at least one technology"
	}
	if len(fields) == 0 {
		return form, in, nil
	}
	return form, in, fields
}
