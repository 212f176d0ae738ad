// Package handlers exposes the hotel services as a JSON API.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/i18n"
	"github.com/diewo77/hotel-backoffice/internal/services"
)

const defaultPageSize = 20

// writeError maps service errors to HTTP statuses with localized messages.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFrom(r.Context())
	if ve, ok := services.IsValidation(err); ok {
		details := make(map[string]string, len(ve.Violations))
		for field, code := range ve.Violations {
			details[field] = i18n.Tf(lang, code, ve.Args[field]...)
		}
		httpx.JSON(w, http.StatusUnprocessableEntity, httpx.ErrorResponse{
			Error:   "validation_failed",
			Message: i18n.T(lang, "validation_failed"),
			Details: details,
		})
		return
	}
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, services.ErrCheckoutBlocked):
		status, code = http.StatusConflict, "checkout_blocked"
	case errors.Is(err, services.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, services.ErrEmptyCart):
		status, code = http.StatusBadRequest, "empty_cart"
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	httpx.JSONMessage(w, status, code, i18n.T(lang, code))
}

func badRequest(w http.ResponseWriter, r *http.Request) {
	httpx.JSONMessage(w, http.StatusBadRequest, "bad_request", i18n.T(i18n.LangFrom(r.Context()), "bad_request"))
}

// decode reads the JSON body into dst and answers 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		badRequest(w, r)
		return false
	}
	return true
}

// decodeOptional accepts an empty body.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil && !errors.Is(err, httpx.ErrEmptyBody) {
		badRequest(w, r)
		return false
	}
	return true
}

// pathID reads {name} and answers 404 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := httpx.PathID(r, name)
	if err != nil {
		httpx.JSONMessage(w, http.StatusNotFound, "not_found", i18n.T(i18n.LangFrom(r.Context()), "not_found"))
		return 0, false
	}
	return id, true
}

type statusRequest struct {
	Status      string `json:"status"`
	Agent       string `json:"agent"`
	ValidatedBy string `json:"validated_by"`
}
