package handler

import (
	"errors"
	"net/http"

	"github.com/nvoss/strongbox/internal/model"
)

// statusFromError maps the error taxonomy onto HTTP status codes: auth
// errors ask for a re-login, validation errors reject the form, state
// errors report a conflict without changing anything, and persistence
// errors are fatal for the request.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrNotLoggedIn),
		errors.Is(err, model.ErrSessionExpired),
		errors.Is(err, model.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrEmptyField),
		errors.Is(err, model.ErrPasswordMismatch),
		errors.Is(err, model.ErrWeakSecret):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrStillLocked),
		errors.Is(err, model.ErrWrongPassword),
		errors.Is(err, model.ErrActuatorBusy),
		errors.Is(err, model.ErrInvalidDuration):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
