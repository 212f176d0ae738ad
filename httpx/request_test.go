package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Suite"}`))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dst.Name != "Suite" {
		t.Fatalf("expected Suite, got %q", dst.Name)
	}

	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(empty, &dst); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := DecodeJSON(bad, &dst); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/rooms/12", nil)
	req.SetPathValue("id", "12")
	id, err := PathID(req, "id")
	if err != nil || id != 12 {
		t.Fatalf("expected 12, got %d (%v)", id, err)
	}
	req.SetPathValue("id", "abc")
	if _, err := PathID(req, "id"); err == nil {
		t.Fatalf("expected error for non numeric id")
	}
	req.SetPathValue("id", "0")
	if _, err := PathID(req, "id"); err == nil {
		t.Fatalf("expected error for zero id")
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"limit=10", 10, 0},
		{"limit=10&page=3", 10, 20},
		{"limit=500", 20, 0},
		{"page=-1", 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			limit, offset := Pagination(req, 20)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Fatalf("got (%d,%d) want (%d,%d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !d.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("14/03/2025"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}

func TestJSONResponses(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, Page{Items: []int{1}, Total: 1, Limit: 20})
	if rec.Code != http.StatusCreated || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("unexpected response %d %v", rec.Code, rec.Header())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"items":[1],"total":1,"limit":20,"offset":0}` {
		t.Fatalf("unexpected body %s", got)
	}

	rec = httptest.NewRecorder()
	JSON(rec, http.StatusOK, func() {})
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "encode_error") {
		t.Fatalf("expected encode error, got %d %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	JSONMessage(rec, http.StatusNotFound, "not_found", "Ressource introuvable")
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"not_found","message":"Ressource introuvable"}` {
		t.Fatalf("unexpected body %s", got)
	}
}
