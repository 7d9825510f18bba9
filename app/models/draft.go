package models

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
)

// Categories lists every category a draft may be filed under.
var Categories = []string{
	"Technology",
	"Design",
	"Business",
	"Health",
	"Education",
	"Entertainment",
	"Travel",
	"Food",
	"Lifestyle",
	"Science",
	"Art",
	"Sports",
	"Other",
}

const (
	MaxTags   = 10
	MaxTagLen = 20
)

var (
	ErrTagEmpty   = errors.New("Tag cannot be empty")
	ErrTagLimit   = errors.New("Maximum 10 tags allowed")
	ErrTagExists  = errors.New("Tag already exists")
	ErrTagTooLong = errors.New("Tag must be less than 20 characters")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	})
	return v
}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Draft is an unsubmitted post as collected by the authoring form.
type Draft struct {
	Title    string   `json:"title" validate:"required,min=5,max=100"`
	Body     string   `json:"body" validate:"required,min=50,max=5000"`
	Category string   `json:"category" validate:"required,category"`
	Tags     []string `json:"tags" validate:"max=10,unique,dive,max=20"`
}

// Validate checks the trimmed draft and returns field-level messages.
func (d *Draft) Validate() error {
	trimmed := Draft{
		Title:    strings.TrimSpace(d.Title),
		Body:     strings.TrimSpace(d.Body),
		Category: d.Category,
		Tags:     d.Tags,
	}
	err := validate.Struct(&trimmed)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range fieldErrs {
		key, msg := draftMessage(fe)
		if _, seen := out[key]; !seen {
			out[key] = msg
		}
	}
	return out
}

func draftMessage(fe validator.FieldError) (string, string) {
	switch {
	case fe.Field() == "title":
		switch fe.Tag() {
		case "required":
			return "title", "Title is required"
		case "min":
			return "title", "Title must be at least 5 characters"
		default:
			return "title", "Title must be less than 100 characters"
		}
	case fe.Field() == "body":
		switch fe.Tag() {
		case "required":
			return "body", "Content is required"
		case "min":
			return "body", "Content must be at least 50 characters"
		default:
			return "body", "Content must be less than 5000 characters"
		}
	case fe.Field() == "category":
		return "category", "Please select a category"
	case fe.Field() == "tags" && fe.Tag() == "unique":
		return "tags", ErrTagExists.Error()
	case fe.Field() == "tags":
		return "tags", ErrTagLimit.Error()
	case strings.HasPrefix(fe.Field(), "tags["):
		return "tags", ErrTagTooLong.Error()
	}
	return fe.Field(), fe.Error()
}

// AddTag trims and case-folds tag and appends it. A rejected tag leaves
// the list unchanged.
func (d *Draft) AddTag(tag string) error {
	tag = cases.Fold().String(strings.TrimSpace(tag))
	if tag == "" {
		return ErrTagEmpty
	}
	if len(d.Tags) >= MaxTags {
		return ErrTagLimit
	}
	for _, t := range d.Tags {
		if t == tag {
			return ErrTagExists
		}
	}
	if utf8.RuneCountInString(tag) > MaxTagLen {
		return ErrTagTooLong
	}
	d.Tags = append(d.Tags, tag)
	return nil
}

// RemoveTag drops tag from the list.
func (d *Draft) RemoveTag(tag string) {
	kept := d.Tags[:0]
	for _, t := range d.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	d.Tags = kept
}

// Reset clears the draft after a successful submission.
func (d *Draft) Reset() {
	*d = Draft{Tags: []string{}}
}

// WordCount counts the body's whitespace-delimited tokens.
func (d *Draft) WordCount() int {
	return WordCount(strings.TrimSpace(d.Body))
}

// ToPost builds the post record the draft will be persisted as.
func (d *Draft) ToPost(creatorID, imageURL string) *Post {
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)
	p := &Post{
		Title:     strings.TrimSpace(d.Title),
		Body:      strings.TrimSpace(d.Body),
		CreatorID: creatorID,
		Tags:      tags,
		Category:  d.Category,
		Image:     imageURL,
	}
	p.BeforeCreate()
	return p
}

// ValidationErrors maps a field name to a human-readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return strings.Join(parts, "; ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
