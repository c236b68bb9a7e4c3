package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Greške su definisane kao sentinel vrednosti da bi pozivaoci mogli da granaju
// preko errors.Is, nezavisno od poruke.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrBadRequest         = errors.New("bad request")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// InvalidAssignmentError is returned when a task is assigned to users that are
// not members of the creator's team. It carries the offending ids so the
// handler can report them back.
type InvalidAssignmentError struct {
	InvalidMembers []string
}

func (e *InvalidAssignmentError) Error() string {
	return fmt.Sprintf("one or more assigned users are not members of your team: %s",
		strings.Join(e.InvalidMembers, ", "))
}

// StatusForError maps an error to the HTTP status code the handlers respond with.
func StatusForError(err error) int {
	var invalidAssignment *InvalidAssignmentError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &invalidAssignment):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
