package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/i18n"
	"github.com/diewo77/hotel-backoffice/internal/services"
	"github.com/diewo77/hotel-backoffice/validation"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("client: %w", services.ErrNotFound), http.StatusNotFound, "not_found"},
		{"transition", fmt.Errorf("x: %w", services.ErrInvalidTransition), http.StatusConflict, "invalid_transition"},
		{"checkout", services.ErrCheckoutBlocked, http.StatusConflict, "checkout_blocked"},
		{"conflict", services.ErrConflict, http.StatusConflict, "conflict"},
		{"empty cart", services.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
			var body httpx.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tc.code || body.Message != i18n.T("fr", tc.code) {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestWriteValidationError(t *testing.T) {
	ve := &services.ValidationError{
		Violations: validation.Violations{"room_id": "room_booked", "name": "required"},
		Args:       map[string][]any{"room_id": {"10/03/2026", "15/03/2026"}},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(i18n.WithLang(req.Context(), "en"))
	rec := httptest.NewRecorder()
	writeError(rec, req, fmt.Errorf("create: %w", ve))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "validation_failed" || body.Details["name"] != "Required" {
		t.Fatalf("unexpected body %+v", body)
	}
	if want := "This room is already booked from 10/03/2026 to 15/03/2026"; body.Details["room_id"] != want {
		t.Fatalf("got %q want %q", body.Details["room_id"], want)
	}
}
