package model

import "strings"

// Categories a project can be filed under. The last entry is the default.
var ProjectCategories = []string{
	"Web Development",
	"Mobile App",
	"UI/UX Design",
	"Branding",
	"E-commerce",
	"Dashboard",
	"API Development",
	DefaultCategory,
}

const DefaultCategory = "Other"

func IsProjectCategory(s string) bool {
	for _, c := range ProjectCategories {
		if c == s {
			return true
		}
	}
	return false
}

type Project struct {
	ID               string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title            string     `gorm:"type:text;not null" json:"title"`
	Description      string     `gorm:"type:text;not null" json:"description"`
	ShortDescription string     `gorm:"type:text;not null" json:"shortDescription"`
	ImageURL         string     `gorm:"column:image_url;type:text;not null" json:"imageUrl"`
	GalleryImages    StringList `gorm:"not null" json:"galleryImages"`
	TechStack        StringList `gorm:"not null" json:"techStack"`
	Category         string     `gorm:"type:text;not null;default:Other" json:"category"`
	LiveURL          *string    `gorm:"column:live_url;type:text" json:"liveUrl"`
	RepoURL          *string    `gorm:"column:repo_url;type:text" json:"repoUrl"`
	Client           *string    `gorm:"type:text" json:"client"`
	Role             *string    `gorm:"type:text" json:"role"`
	Date             *string    `gorm:"type:text" json:"date"`
	Views            int        `gorm:"not null;default:0" json:"views"`
}

func (Project) TableName() string { return "projects" }

// Normalize applies the storage defaults: lists are never nil and the category is never empty.
func (p *Project) Normalize() {
	if p.GalleryImages == nil {
		p.GalleryImages = StringList{}
	}
	if p.TechStack == nil {
		p.TechStack = StringList{}
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Views < 0 {
		p.Views = 0
	}
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (p *Project) Clone() *Project {
	out := *p
	out.GalleryImages = append(StringList{}, p.GalleryImages...)
	out.TechStack = append(StringList{}, p.TechStack...)
	out.LiveURL = cloneString(p.LiveURL)
	out.RepoURL = cloneString(p.RepoURL)
	out.Client = cloneString(p.Client)
	out.Role = cloneString(p.Role)
	out.Date = cloneString(p.Date)
	return &out
}

// ProjectInput is the insert schema accepted by create and update. Id and views are server-managed.
type ProjectInput struct {
	Title            string   `json:"title" binding:"notblank"`
	ShortDescription string   `json:"shortDescription" binding:"notblank"`
	Description      string   `json:"description" binding:"notblank"`
	ImageURL         string   `json:"imageUrl" binding:"notblank,url"`
	GalleryImages    []string `json:"galleryImages" binding:"omitempty,dive,url"`
	TechStack        []string `json:"techStack" binding:"omitempty,dive,notblank"`
	Category         string   `json:"category" binding:"omitempty,project_category"`
	LiveURL          *string  `json:"liveUrl" binding:"omitempty,optional_url"`
	RepoURL          *string  `json:"repoUrl" binding:"omitempty,optional_url"`
	Client           *string  `json:"client"`
	Role             *string  `json:"role"`
	Date             *string  `json:"date"`
}

// ToProject converts validated input into a record without an id.
func (in ProjectInput) ToProject() *Project {
	p := &Project{
		Title:            strings.TrimSpace(in.Title),
		ShortDescription: strings.TrimSpace(in.ShortDescription),
		Description:      strings.TrimSpace(in.Description),
		ImageURL:         strings.TrimSpace(in.ImageURL),
		GalleryImages:    compact(in.GalleryImages),
		TechStack:        compact(in.TechStack),
		Category:         strings.TrimSpace(in.Category),
		LiveURL:          optional(in.LiveURL),
		RepoURL:          optional(in.RepoURL),
		Client:           optional(in.Client),
		Role:             optional(in.Role),
		Date:             optional(in.Date),
	}
	p.Normalize()
	return p
}

// InputFrom is the inverse of ToProject, used to prefill edit forms.
func InputFrom(p *Project) ProjectInput {
	return ProjectInput{
		Title:            p.Title,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		ImageURL:         p.ImageURL,
		GalleryImages:    append([]string{}, p.GalleryImages...),
		TechStack:        append([]string{}, p.TechStack...),
		Category:         p.Category,
		LiveURL:          cloneString(p.LiveURL),
		RepoURL:          cloneString(p.RepoURL),
		Client:           cloneString(p.Client),
		Role:             cloneString(p.Role),
		Date:             cloneString(p.Date),
	}
}

func compact(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
