package web

import (
	"strings"

	"github.com/folio-works/portfolio/internal/modules/model"
)

// projectForm mirrors the admin form fields. Tech stack is comma separated and the
// gallery is one URL per line.
type projectForm struct {
	Title            string `form:"title"`
	ShortDescription string `form:"shortDescription"`
	Description      string `form:"description"`
	ImageURL         string `form:"imageUrl"`
	GalleryImages    string `form:"galleryImages"`
	TechStack        string `form:"techStack"`
	Category         string `form:"category"`
	LiveURL          string `form:"liveUrl"`
	RepoURL          string `form:"repoUrl"`
	Client           string `form:"client"`
	Role             string `form:"role"`
	Date             string `form:"date"`
}

func (f projectForm) input() model.ProjectInput {
	return model.ProjectInput{
		Title:            f.Title,
		ShortDescription: f.ShortDescription,
		Description:      f.Description,
		ImageURL:         f.ImageURL,
		GalleryImages:    splitNonEmpty(f.GalleryImages, "\n"),
		TechStack:        splitNonEmpty(f.TechStack, ","),
		Category:         f.Category,
		LiveURL:          ptr(f.LiveURL),
		RepoURL:          ptr(f.RepoURL),
		Client:           ptr(f.Client),
		Role:             ptr(f.Role),
		Date:             ptr(f.Date),
	}
}

func formFrom(p *model.Project) projectForm {
	in := model.InputFrom(p)
	return projectForm{
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		ImageURL:         in.ImageURL,
		GalleryImages:    strings.Join(in.GalleryImages, "\n"),
		TechStack:        strings.Join(in.TechStack, ", "),
		Category:         in.Category,
		LiveURL:          val(in.LiveURL),
		RepoURL:          val(in.RepoURL),
		Client:           val(in.Client),
		Role:             val(in.Role),
		Date:             val(in.Date),
	}
}

func splitNonEmpty(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func ptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func val(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
