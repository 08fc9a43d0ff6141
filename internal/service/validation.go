package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError collects failed field validations. Messages keep the
// order in which they were added.
type ValidationError struct {
	Fields map[string][]string
	order  []string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Messages returns full messages such as "Performed at can't be blank".
func (e *ValidationError) Messages() []string {
	var out []string
	for _, field := range e.order {
		for _, msg := range e.Fields[field] {
			if field == fieldBase {
				out = append(out, msg)
				continue
			}
			out = append(out, humanize(field)+" "+msg)
		}
	}
	return out
}

// FieldMessages returns full messages keyed by field, e.g.
// {"email": ["Email has already been taken"]}.
func (e *ValidationError) FieldMessages() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for field, msgs := range e.Fields {
		for _, msg := range msgs {
			full := msg
			if field != fieldBase {
				full = humanize(field) + " " + msg
			}
			out[field] = append(out[field], full)
		}
	}
	return out
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), ", ")
}

// fieldBase holds errors about the record as a whole.
const fieldBase = "base"

// Err returns nil when nothing was added.
func (e *ValidationError) Err() error {
	if len(e.order) == 0 {
		return nil
	}
	return e
}

func humanize(field string) string {
	field = strings.TrimSuffix(field, "_id")
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var validEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

const (
	msgBlank    = "can't be blank"
	msgNegative = "must be greater than or equal to 0"
	msgMissing  = "must exist"
)

func (e *ValidationError) requireString(field, v string) {
	if strings.TrimSpace(v) == "" {
		e.Add(field, msgBlank)
	}
}

func (e *ValidationError) maxLength(field, v string, n int) {
	if len([]rune(v)) > n {
		e.Add(field, fmt.Sprintf("is too long (maximum is %d characters)", n))
	}
}

func (e *ValidationError) requireTime(field string, v time.Time) {
	if v.IsZero() {
		e.Add(field, msgBlank)
	}
}

func (e *ValidationError) requireID(field string, v uint) {
	if v == 0 {
		e.Add(field, msgMissing)
	}
}

func nonNegative[T int | float64](e *ValidationError, field string, v *T) {
	if v != nil && *v < 0 {
		e.Add(field, msgNegative)
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
