package handlers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/i18n"
	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/diewo77/hotel-backoffice/internal/services"
)

type ActivityHandler struct {
	svc *services.ActivityService
}

func NewActivityHandler(svc *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// filter reads the journal filters from the query string.
func (h *ActivityHandler) filter(w http.ResponseWriter, r *http.Request) (services.ActivityFilter, bool) {
	q := r.URL.Query()
	f := services.ActivityFilter{
		EventType: q.Get("event_type"),
		Module:    q.Get("module"),
		User:      q.Get("user"),
		Severity:  q.Get("severity"),
		Search:    q.Get("search"),
	}
	for name, dst := range map[string]**time.Time{"date_from": &f.DateFrom, "date_to": &f.DateTo} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		d, err := httpx.ParseDate(raw)
		if err != nil {
			badRequest(w, r)
			return f, false
		}
		*dst = &d
	}
	return f, true
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := h.filter(w, r)
	if !ok {
		return
	}
	f.Limit, f.Offset = httpx.Pagination(r, 50)
	logs, total, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Items: logs, Total: total, Limit: f.Limit, Offset: f.Offset})
}

func (h *ActivityHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "text/csv; charset=utf-8", "csv", services.WriteActivityCSV)
}

func (h *ActivityHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", services.WriteActivityXLSX)
}

type exportFunc func(w io.Writer, lang string, logs []models.ActivityLog) error

func (h *ActivityHandler) export(w http.ResponseWriter, r *http.Request, contentType, ext string, write exportFunc) {
	f, ok := h.filter(w, r)
	if !ok {
		return
	}
	logs, _, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := write(&buf, i18n.LangFrom(r.Context()), logs); err != nil {
		writeError(w, r, err)
		return
	}
	name := "activity_logs_" + time.Now().UTC().Format("20060102_150405") + "." + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
