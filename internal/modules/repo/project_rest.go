package repo

import (
	"context"
	"net/http"
	"net/url"

	"github.com/folio-works/portfolio/internal/infra/httpclient"
	"github.com/folio-works/portfolio/internal/modules/model"
)

// projectRow mirrors the column names of the projects table as exposed by the REST gateway.
type projectRow struct {
	ID               string   `json:"id,omitempty"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	ImageURL         string   `json:"image_url"`
	GalleryImages    []string `json:"gallery_images"`
	TechStack        []string `json:"tech_stack"`
	Category         string   `json:"category"`
	LiveURL          *string  `json:"live_url"`
	RepoURL          *string  `json:"repo_url"`
	Client           *string  `json:"client"`
	Role             *string  `json:"role"`
	Date             *string  `json:"date"`
	Views            *int     `json:"views,omitempty"`
}

func rowFrom(p *model.Project) projectRow {
	return projectRow{
		Title:            p.Title,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		ImageURL:         p.ImageURL,
		GalleryImages:    append([]string{}, p.GalleryImages...),
		TechStack:        append([]string{}, p.TechStack...),
		Category:         p.Category,
		LiveURL:          p.LiveURL,
		RepoURL:          p.RepoURL,
		Client:           p.Client,
		Role:             p.Role,
		Date:             p.Date,
	}
}

func (r projectRow) toModel() model.Project {
	p := model.Project{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		ImageURL:         r.ImageURL,
		GalleryImages:    model.StringList(r.GalleryImages),
		TechStack:        model.StringList(r.TechStack),
		Category:         r.Category,
		LiveURL:          r.LiveURL,
		RepoURL:          r.RepoURL,
		Client:           r.Client,
		Role:             r.Role,
		Date:             r.Date,
	}
	if r.Views != nil {
		p.Views = *r.Views
	}
	p.Normalize()
	return p
}

type restProjectRepo struct {
	client *httpclient.PostgrestClient
	table  string
}

// NewRestProjectRepo stores projects in a managed backend reached through its REST gateway.
func NewRestProjectRepo(client *httpclient.PostgrestClient, table string) ProjectRepo {
	if table == "" {
		table = "projects"
	}
	return &restProjectRepo{client: client, table: table}
}

func byID(id string) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", httpclient.Eq(id))
	return q
}

func (r *restProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	var rows []projectRow
	if err := r.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   r.table,
		Query:  url.Values{"select": {"*"}},
	}, &rows); err != nil {
		return nil, err
	}

	out := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *restProjectRepo) Get(ctx context.Context, id string) (*model.Project, error) {
	var rows []projectRow
	if err := r.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   r.table,
		Query:  byID(id),
	}, &rows); err != nil {
		return nil, err
	}
	return first(rows)
}

func (r *restProjectRepo) Create(ctx context.Context, p *model.Project) error {
	p.Normalize()
	row := rowFrom(p)
	row.ID = newID()
	zero := 0
	row.Views = &zero

	var rows []projectRow
	if err := r.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   r.table,
		Query:  url.Values{"select": {"*"}},
		Body:   row,
		Prefer: httpclient.PreferReturnRepresentation,
	}, &rows); err != nil {
		return err
	}

	created, err := first(rows)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (r *restProjectRepo) Update(ctx context.Context, id string, p *model.Project) (*model.Project, error) {
	p.Normalize()

	var rows []projectRow
	if err := r.client.Do(ctx, httpclient.Request{
		Method: http.MethodPatch,
		Path:   r.table,
		Query:  byID(id),
		Body:   rowFrom(p),
		Prefer: httpclient.PreferReturnRepresentation,
	}, &rows); err != nil {
		return nil, err
	}
	return first(rows)
}

func (r *restProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows []projectRow
	if err := r.client.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   r.table,
		Query:  byID(id),
		Prefer: httpclient.PreferReturnRepresentation,
	}, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (r *restProjectRepo) IncrementViews(ctx context.Context, id string) (int, error) {
	var views *int
	if err := r.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "rpc/increment_project_views",
		Body:   map[string]string{"project_id": id},
	}, &views); err != nil {
		return 0, err
	}
	if views == nil {
		return 0, ErrNotFound
	}
	return *views, nil
}

func first(rows []projectRow) (*model.Project, error) {
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	p := rows[0].toModel()
	return &p, nil
}
