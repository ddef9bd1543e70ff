package httpapi

import (
	"net/http"

	"little-lemon/order-svc/internal/domain"
)

func (h *Handler) listMenuItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Menu.List(r.Context(), domain.MenuFilter{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderList(items, renderMenuItem))
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !h.bind(w, r, &req) {
		return
	}
	item := req.toMenuItem(0)
	if err := h.Menu.Create(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, renderMenuItem(item))
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return
	}
	item, err := h.Menu.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderMenuItem(*item))
}

func (h *Handler) replaceMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return
	}
	var req menuItemRequest
	if !h.bind(w, r, &req) {
		return
	}
	item := req.toMenuItem(id)
	if err := h.Menu.Replace(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderMenuItem(item))
}

func (h *Handler) patchMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return
	}
	var req menuItemPatchRequest
	if !h.bind(w, r, &req) {
		return
	}
	item, err := h.Menu.Patch(r.Context(), id, domain.MenuItemPatch{
		Title:      req.Title,
		Price:      req.Price,
		Featured:   req.Featured,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderMenuItem(*item))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := h.Menu.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Menu.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderList(categories, renderCategory))
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.bind(w, r, &req) {
		return
	}
	category := domain.Category{Slug: req.Slug, Title: req.Title}
	if err := h.Menu.CreateCategory(r.Context(), &category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, renderCategory(category))
}
