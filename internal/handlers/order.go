package handlers

import (
	"net/http"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/internal/services"
)

type OrderHandler struct {
	svc *services.OrderService
}

func NewOrderHandler(svc *services.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if !decode(w, r, &in) {
		return
	}
	order, err := h.svc.PlaceOrder(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Pending(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Pending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r, defaultPageSize)
	orders, total, err := h.svc.List(r.Context(), services.OrderFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Items: orders, Total: total, Limit: limit, Offset: offset})
}

func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body statusRequest
	if !decode(w, r, &body) {
		return
	}
	order, err := h.svc.Advance(r.Context(), id, models.OrderStatus(body.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}
