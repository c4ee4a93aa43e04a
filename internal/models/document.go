// Package models defines the boundary types for resumes, jobs and match results.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Document is a candidate resume already reduced to plain text.
type Document struct {
	ID       string `json:"id,omitempty"`
	Filename string `json:"filename" validate:"required"`
	Text     string `json:"text"`

	// textMissing is set when decoded JSON had no "text" or a null one.
	textMissing bool
}

// UnmarshalJSON decodes a document, remembering whether "text" was supplied.
// An empty string is a valid resume; an absent or null text is not.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	aux := struct {
		*plain
		Text *string `json:"text"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.textMissing = aux.Text == nil
	if aux.Text != nil {
		d.Text = *aux.Text
	}
	return nil
}

// JobSpec describes what a role requires. Description takes precedence when
// both are set.
type JobSpec struct {
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// IsEmpty reports whether the job carries neither a description nor any keyword.
func (j JobSpec) IsEmpty() bool {
	if strings.TrimSpace(j.Description) != "" {
		return false
	}
	for _, kw := range j.Keywords {
		if strings.TrimSpace(kw) != "" {
			return false
		}
	}
	return true
}

// Validate rejects a job with nothing to match against.
func (j JobSpec) Validate() error {
	if j.IsEmpty() {
		return &InvalidInputError{Field: "job", Message: "description or keywords required"}
	}
	return nil
}

// MatchRequest screens a batch of resumes against one job.
type MatchRequest struct {
	Job     JobSpec     `json:"job"`
	Resumes []*Document `json:"resumes" validate:"required,min=1,dive,required"`
}

// Validate checks the request shape, that every resume carries text, and
// the job.
func (r *MatchRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}
	for i, doc := range r.Resumes {
		if doc.textMissing {
			return &InvalidInputError{Field: fmt.Sprintf("resumes[%d].text", i), Message: "text is required"}
		}
	}
	return r.Job.Validate()
}

// ValidateDocument checks a single document at the boundary.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return &InvalidInputError{Field: "document", Message: "document is nil"}
	}
	if err := validate.Struct(doc); err != nil {
		return validationError(err)
	}
	if doc.textMissing {
		return &InvalidInputError{Field: "text", Message: "text is required"}
	}
	return nil
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		first := ve[0]
		return &InvalidInputError{
			Field:   first.Namespace(),
			Message: fmt.Sprintf("failed %q validation", first.Tag()),
			Cause:   err,
		}
	}
	return &InvalidInputError{Message: "invalid request", Cause: err}
}
