// Package form holds the editable state of the project, task and user
// forms: defaults, validation and the submission guard.
package form

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// ErrInFlight is returned by Submit while a previous submission of the
// same form has not finished.
var ErrInFlight = errors.New("submission already in progress")

// ValidationError lists the fields that failed validation
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Field returns the message for one field, or "" if it is valid
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

// FieldError extracts the message for name from err when err is a
// ValidationError.
func FieldError(err error, name string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field(name)
	}
	return ""
}

type checker map[string]string

func (c checker) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c[field] = "required"
	}
}

func (c checker) check(ok bool, field, msg string) {
	if !ok {
		if _, exists := c[field]; !exists {
			c[field] = msg
		}
	}
}

func (c checker) err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Fields: c}
}

// Submission guards a form against double submission and remembers the
// outcome of the last attempt.
type Submission struct {
	mu       sync.Mutex
	inFlight bool
	err      error
}

// InFlight reports whether a submission is running
func (s *Submission) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Err returns the error of the last attempt
func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Submission) begin(validate func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrInFlight
	}
	if err := validate(); err != nil {
		s.err = err
		return err
	}
	s.inFlight = true
	s.err = nil
	return nil
}

func (s *Submission) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.err = err
}

// Cycle returns the option after cur, wrapping around. An unknown cur
// yields the first option.
func Cycle[T comparable](options []T, cur T) T {
	if len(options) == 0 {
		return cur
	}
	i := slices.Index(options, cur)
	return options[(i+1)%len(options)]
}
