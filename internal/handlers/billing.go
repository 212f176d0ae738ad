package handlers

import (
	"net/http"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/internal/services"
)

type BillingHandler struct {
	svc *services.BillingService
}

func NewBillingHandler(svc *services.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

func (h *BillingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r, defaultPageSize)
	list, total, err := h.svc.List(r.Context(), services.InvoiceFilter{
		Status:        r.URL.Query().Get("status"),
		ClientID:      httpx.QueryUint(r, "client_id"),
		ReservationID: httpx.QueryUint(r, "reservation_id"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Items: list, Total: total, Limit: limit, Offset: offset})
}

func (h *BillingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.InvoiceInput
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *BillingHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *BillingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.InvoiceUpdate
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *BillingHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *BillingHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.LineInput
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.svc.AddLine(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *BillingHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(w, r, "line_id")
	if !ok {
		return
	}
	var in services.LineInput
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.svc.UpdateLine(r.Context(), id, lineID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *BillingHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(w, r, "line_id")
	if !ok {
		return
	}
	inv, err := h.svc.RemoveLine(r.Context(), id, lineID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *BillingHandler) Payments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	payments, err := h.svc.Payments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payments)
}

func (h *BillingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.PaymentInput
	if !decode(w, r, &in) {
		return
	}
	inv, err := h.svc.RecordPayment(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// NightlyCharges runs the nightly charge for the given date, today by default.
func (h *BillingHandler) NightlyCharges(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if !decodeOptional(w, r, &body) {
		return
	}
	day := services.Today()
	if body.Date != "" {
		d, err := httpx.ParseDate(body.Date)
		if err != nil {
			badRequest(w, r)
			return
		}
		day = d
	}
	report, err := h.svc.ChargeNightly(r.Context(), day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *BillingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}
