package handlers

import (
	"net/http"

	"github.com/diewo77/hotel-backoffice/httpx"
	"github.com/diewo77/hotel-backoffice/internal/services"
)

// CatalogHandler serves the extra-services and restaurant menu catalogs.
type CatalogHandler struct {
	svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListServiceCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListServiceCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cats)
}

func (h *CatalogHandler) CreateServiceCategory(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	cat, err := h.svc.CreateServiceCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cat)
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListServices(r.Context(), httpx.QueryUint(r, "category_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var in services.ServiceInput
	if !decode(w, r, &in) {
		return
	}
	svc, err := h.svc.CreateService(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, svc)
}

func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteService(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *CatalogHandler) ListDishCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListDishCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cats)
}

func (h *CatalogHandler) CreateDishCategory(w http.ResponseWriter, r *http.Request) {
	var in services.DishCategoryInput
	if !decode(w, r, &in) {
		return
	}
	cat, err := h.svc.CreateDishCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cat)
}

// ListMenuItems accepts category_id and available=1.
func (h *CatalogHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListMenuItems(r.Context(), services.MenuFilter{
		CategoryID:    httpx.QueryUint(r, "category_id"),
		AvailableOnly: r.URL.Query().Get("available") == "1",
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in services.MenuItemInput
	if !decode(w, r, &in) {
		return
	}
	item, err := h.svc.CreateMenuItem(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.MenuItemInput
	if !decode(w, r, &in) {
		return
	}
	item, err := h.svc.UpdateMenuItem(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteMenuItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
