package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-works/portfolio/internal/modules/model"
)

func TestStruct_ProjectInput(t *testing.T) {
	bad := "not a url"
	tests := []struct {
		name   string
		in     model.ProjectInput
		fields map[string]string
	}{
		{
			name: "valid minimal",
			in: model.ProjectInput{
				Title: "A", ShortDescription: "B", Description: "C", ImageURL: "http://x/i.jpg",
			},
		},
		{
			name: "missing required",
			in:   model.ProjectInput{Title: "  ", ImageURL: "http://x/i.jpg"},
			fields: map[string]string{
				"title":            "Title is required",
				"shortDescription": "Short description is required",
				"description":      "Description is required",
			},
		},
		{
			name: "bad urls and category",
			in: model.ProjectInput{
				Title: "A", ShortDescription: "B", Description: "C", ImageURL: "http://x/i.jpg",
				GalleryImages: []string{"http://x/1.jpg", "nope"},
				LiveURL:       &bad,
				Category:      "Games",
			},
			fields: map[string]string{
				"galleryImages": "Please enter a valid URL",
				"liveUrl":       "Please enter a valid URL",
				"category":      "Please choose one of the listed categories",
			},
		},
		{
			name: "empty optional url is allowed",
			in: model.ProjectInput{
				Title: "A", ShortDescription: "B", Description: "C", ImageURL: "http://x/i.jpg",
				RepoURL: new(string),
			},
		},
		{
			name: "blank optional urls are allowed",
			in: model.ProjectInput{
				Title: "A", ShortDescription: "B", Description: "C", ImageURL: "http://x/i.jpg",
				LiveURL: strPtr("   "), RepoURL: strPtr(""),
			},
		},
		{
			name: "valid optional urls",
			in: model.ProjectInput{
				Title: "A", ShortDescription: "B", Description: "C", ImageURL: "http://x/i.jpg",
				LiveURL: strPtr("https://atlas.example.com"), RepoURL: strPtr("https://github.com/x/atlas"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.in)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields, ok := FieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestFieldErrors_NotValidation(t *testing.T) {
	fields, ok := FieldErrors(errors.New("unexpected EOF"))
	assert.False(t, ok)
	assert.Nil(t, fields)
}

func strPtr(s string) *string { return &s }
