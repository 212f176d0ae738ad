package handlers

import (
	"net/http"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/internal/services"
)

type CleaningHandler struct {
	svc *services.CleaningService
}

func NewCleaningHandler(svc *services.CleaningService) *CleaningHandler {
	return &CleaningHandler{svc: svc}
}

func (h *CleaningHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Pagination(r, defaultPageSize)
	q := r.URL.Query()
	tasks, total, err := h.svc.List(r.Context(), services.CleaningFilter{
		Status:   q.Get("status"),
		RoomID:   httpx.QueryUint(r, "room_id"),
		Priority: q.Get("priority"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Items: tasks, Total: total, Limit: limit, Offset: offset})
}

func (h *CleaningHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CleaningInput
	if !decode(w, r, &in) {
		return
	}
	task, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, task)
}

func (h *CleaningHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	task, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *CleaningHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body statusRequest
	if !decodeOptional(w, r, &body) {
		return
	}
	task, err := h.svc.Start(r.Context(), id, body.Agent)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *CleaningHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	task, err := h.svc.Complete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *CleaningHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body statusRequest
	if !decodeOptional(w, r, &body) {
		return
	}
	task, err := h.svc.Validate(r.Context(), id, body.ValidatedBy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}
