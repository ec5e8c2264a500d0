// Package forms holds the field validation and submission reporting shared
// by the creation forms.
package forms

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/mcdev12/tplauction/go/clients"
	"github.com/mcdev12/tplauction/go/internal/notify"
)

// ErrValidation is returned when a form fails its field checks. No request
// is sent in that case.
var ErrValidation = errors.New("validation failed")

// FieldErrors maps a field name to its operator-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Get(field string) string {
	return e[field]
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names, sorted.
func (e FieldErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MinLength checks a value against a minimum rune count. Whitespace counts.
func MinLength(errs FieldErrors, field, value string, min int, message string) {
	if len([]rune(value)) < min {
		errs.Add(field, message)
	}
}

// OptionalInt accepts an empty value or a whole number.
func OptionalInt(errs FieldErrors, field, value, message string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, err := strconv.Atoi(value); err != nil {
		errs.Add(field, message)
	}
}

// RequiredInt accepts only a whole number.
func RequiredInt(errs FieldErrors, field, value, requiredMessage, invalidMessage string) {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.Add(field, requiredMessage)
		return
	}
	if _, err := strconv.Atoi(value); err != nil {
		errs.Add(field, invalidMessage)
	}
}

// ReportFailure raises exactly one notification for a failed submission.
// Errors from the server carry its message or fallback; anything else is a
// transport failure and gets transportMessage.
func ReportFailure(sink notify.Sink, err error, fallback, transportMessage string) {
	if clients.IsAPIError(err) {
		notify.Error(sink, clients.ErrorMessage(err, fallback))
		return
	}
	notify.Error(sink, transportMessage)
}
