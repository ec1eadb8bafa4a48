package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nvoss/strongbox/internal/api/http/web"
	"github.com/nvoss/strongbox/internal/logger"
	"github.com/nvoss/strongbox/internal/model"
)

// maxFormMemory bounds in-memory multipart parsing; the forms carry a few
// short fields at most.
const maxFormMemory = 1 << 20

// LockService is the lock controller surface the dispatcher needs.
type LockService interface {
	Status() model.SafeState
	TestUnlock(ctx context.Context, password string) bool
	UnlockOnce(ctx context.Context, password string) error
	UnlockPermanent(ctx context.Context, password string) error
	Open(ctx context.Context, duration time.Duration) error
	Lock(ctx context.Context, new1, new2 string) error
}

// ProvisionService applies credential and network changes.
type ProvisionService interface {
	ApplyAuth(ctx context.Context, username, password string) error
	ApplyWiFi(ctx context.Context, ssid, password string) error
}

// Safe dispatches the control form posts. The submit button that was
// pressed arrives as a form field; its name selects the operation.
type Safe struct {
	lock      LockService
	provision ProvisionService
	logger    *logger.Logger
}

// NewSafe creates the safe control handler.
func NewSafe(lock LockService, provision ProvisionService, l *logger.Logger) *Safe {
	return &Safe{lock: lock, provision: provision, logger: l}
}

// Status answers GET /safe/ with the current state. The index frameset
// loads it as its main frame.
func (h *Safe) Status(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w, http.StatusOK, "")
}

// Dispatch answers POST /safe/.
func (h *Safe) Dispatch(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.writeError(w, fmt.Errorf("%w: malformed form", model.ErrEmptyField))
		return
	}

	ctx := r.Context()
	switch {
	case formHas(r, "status"):
		h.writeStatus(w, http.StatusOK, "")

	case formHas(r, "open"):
		h.openDoor(w, r)

	case formHas(r, "pwtest"):
		if h.lock.TestUnlock(ctx, r.FormValue("unlock")) {
			h.writeStatus(w, http.StatusOK, "unlock password matches")
		} else {
			h.writeStatus(w, http.StatusOK, "unlock password does not match")
		}

	case formHas(r, "unlock_1"):
		if err := h.lock.UnlockOnce(ctx, r.FormValue("unlock")); err != nil {
			h.writeError(w, err)
			return
		}
		h.writeStatus(w, http.StatusOK, "unlocked for one opening")

	case formHas(r, "unlock_all"):
		if err := h.lock.UnlockPermanent(ctx, r.FormValue("unlock")); err != nil {
			h.writeError(w, err)
			return
		}
		h.writeStatus(w, http.StatusOK, "unlocked until explicitly locked")

	case formHas(r, "lock"):
		if err := h.lock.Lock(ctx, r.FormValue("lock1"), r.FormValue("lock2")); err != nil {
			h.writeError(w, err)
			return
		}
		h.writeStatus(w, http.StatusOK, "locked with the new password")

	case formHas(r, "setauth"):
		if err := h.provision.ApplyAuth(ctx, r.FormValue("username"), r.FormValue("password")); err != nil {
			h.writeError(w, err)
			return
		}
		h.writeStatus(w, http.StatusOK, "auth details changed, please log in again")

	default:
		h.writeError(w, fmt.Errorf("%w: no operation selected", model.ErrEmptyField))
	}
}

// ChangeWiFi answers the root form post carrying setwifi.
func (h *Safe) ChangeWiFi(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.writeError(w, fmt.Errorf("%w: malformed form", model.ErrEmptyField))
		return
	}

	if !formHas(r, "setwifi") {
		h.writeError(w, fmt.Errorf("%w: no operation selected", model.ErrEmptyField))
		return
	}

	if err := h.provision.ApplyWiFi(r.Context(), r.FormValue("ssid"), r.FormValue("password")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeStatus(w, http.StatusOK, "wifi details changed, the safe will reboot in a few seconds")
}

func (h *Safe) openDoor(w http.ResponseWriter, r *http.Request) {
	seconds, err := strconv.Atoi(r.FormValue("duration"))
	if err != nil {
		h.writeError(w, model.ErrInvalidDuration)
		return
	}

	if err := h.lock.Open(r.Context(), time.Duration(seconds)*time.Second); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeStatus(w, http.StatusOK, fmt.Sprintf("door open for %d seconds", seconds))
}

func (h *Safe) writeStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, web.StatusPage(h.lock.Status(), message))
}

func (h *Safe) writeError(w http.ResponseWriter, err error) {
	h.logger.Info("operation rejected", "error", err.Error())
	h.writeStatus(w, statusFromError(err), err.Error())
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func formHas(r *http.Request, key string) bool {
	_, ok := r.Form[key]
	return ok
}
