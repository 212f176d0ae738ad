package handlers

import (
	"net/http"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/internal/services"
)

type ReservationHandler struct {
	svc          *services.ReservationService
	affiliations *services.AffiliationService
}

func NewReservationHandler(svc *services.ReservationService, affiliations *services.AffiliationService) *ReservationHandler {
	return &ReservationHandler{svc: svc, affiliations: affiliations}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r, defaultPageSize)
	list, total, err := h.svc.List(r.Context(), services.ReservationFilter{
		Status:   r.URL.Query().Get("status"),
		RoomID:   httpx.QueryUint(r, "room_id"),
		ClientID: httpx.QueryUint(r, "client_id"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Items: list, Total: total, Limit: limit, Offset: offset})
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ReservationInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.ReservationInput
	if !decode(w, r, &in) {
		return
	}
	res, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *ReservationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body statusRequest
	if !decode(w, r, &body) {
		return
	}
	res, err := h.svc.Transition(r.Context(), id, models.ReservationStatus(body.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.CheckIn(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.Checkout(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Affiliation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	aff, err := h.affiliations.ForReservation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, aff)
}

func (h *ReservationHandler) CreateAffiliation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.AffiliationInput
	if !decode(w, r, &in) {
		return
	}
	aff, err := h.affiliations.Create(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, aff)
}

func (h *ReservationHandler) SetAffiliationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body statusRequest
	if !decode(w, r, &body) {
		return
	}
	aff, err := h.affiliations.SetStatus(r.Context(), id, body.Status, body.ValidatedBy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, aff)
}
