// Package validate registers the custom binding tags used by the insert schema and turns
// validator errors into field-level messages keyed by json field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/folio-works/portfolio/internal/modules/model"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("project_category", func(fl validator.FieldLevel) bool {
		return model.IsProjectCategory(fl.Field().String())
	})
	// blank is treated as absent; omitempty only skips nil pointers
	_ = v.RegisterValidation("optional_url", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || urlCheck.Var(s, "url") == nil
	})
}

var urlCheck = validator.New()

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = f.Name
	}
	return name
}

var labels = map[string]string{
	"title":            "Title",
	"shortDescription": "Short description",
	"description":      "Description",
	"imageUrl":         "Image URL",
	"galleryImages":    "Gallery image",
	"techStack":        "Technology",
	"category":         "Category",
	"liveUrl":          "Live URL",
	"repoUrl":          "Repository URL",
	"username":         "Username",
	"password":         "Password",
	"name":             "Name",
	"email":            "Email",
	"message":          "Message",
}

// Struct runs the binding validator over v, which must be a struct or pointer to struct.
func Struct(v any) error {
	return binding.Validator.ValidateStruct(v)
}

// FieldErrors maps validation failures to messages. The boolean is false when err is not
// a validation error (for instance malformed JSON).
func FieldErrors(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fieldKey(fe)
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, fe)
	}
	return out, true
}

// fieldKey strips the struct prefix and any slice index: "ProjectInput.galleryImages[1]" -> "galleryImages".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.Index(ns, "["); i >= 0 {
		ns = ns[:i]
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	label, ok := labels[field]
	if !ok {
		label = field
	}
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "url", "optional_url":
		return "Please enter a valid URL"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "project_category":
		return "Please choose one of the listed categories"
	default:
		return label + " is invalid"
	}
}
