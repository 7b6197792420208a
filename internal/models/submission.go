package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrMissingFields = errors.New("missing required student data")

var validate = validator.New()

// Submission is one student's quiz result as it was posted. Fields beyond
// the well-known ones are kept verbatim.
type Submission map[string]any

// requiredRules must all pass for a submission to be accepted. required
// rejects missing keys, null, "", 0 and false.
var requiredRules = map[string]interface{}{
	"name":   "required",
	"email":  "required",
	"course": "required",
}

func (s Submission) Validate() error {
	values := make(map[string]interface{}, len(requiredRules))
	for field := range requiredRules {
		values[field] = plain(s[field])
	}

	if errs := validate.ValidateMap(values, requiredRules); len(errs) > 0 {
		fields := make([]string, 0, len(errs))
		for field := range errs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(fields, ", "))
	}

	// score only has to be present, 0 and null are valid
	if _, ok := s["score"]; !ok {
		return fmt.Errorf("%w: score", ErrMissingFields)
	}
	return nil
}

// plain turns a json.Number into a float64 so a zero reads as zero.
func plain(v any) any {
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v
}

func (s Submission) Name() any     { return s["name"] }
func (s Submission) Email() any    { return s["email"] }
func (s Submission) Course() any   { return s["course"] }
func (s Submission) Score() any    { return s["score"] }
func (s Submission) MaxScore() any { return s["maxScore"] }

// CourseLabel renders the course for logs and metric labels.
func (s Submission) CourseLabel() string {
	if c, ok := s["course"].(string); ok {
		return c
	}
	return fmt.Sprint(s["course"])
}

// Extra returns every field that is not one of the well-known ones.
func (s Submission) Extra() map[string]any {
	extra := make(map[string]any)
	for k, v := range s {
		switch k {
		case "name", "email", "course", "score", "maxScore":
			continue
		}
		extra[k] = v
	}
	return extra
}

// Receipt acknowledges an accepted submission. ID is the position of the
// record in the collection right after it was appended.
type Receipt struct {
	ID     int `json:"id"`
	Name   any `json:"name"`
	Course any `json:"course"`
}
