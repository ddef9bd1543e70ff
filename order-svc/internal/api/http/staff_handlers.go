package httpapi

import (
	"fmt"
	"net/http"

	"little-lemon/order-svc/internal/access"

	"github.com/gorilla/mux"
)

// roster binds one staff group to the resources guarding its list and entries.
type roster struct {
	group string
	list  access.Resource
	entry access.Resource
}

func (h *Handler) registerRoster(api *mux.Router, path string, rs roster) {
	api.HandleFunc(path, h.guard(rs.list, h.listMembers(rs))).Methods("GET")
	api.HandleFunc(path, h.guard(rs.list, h.addMember(rs))).Methods("POST")
	api.HandleFunc(path+"/{id:[0-9]+}", h.guard(rs.entry, h.getMember(rs))).Methods("GET")
	api.HandleFunc(path+"/{id:[0-9]+}", h.guard(rs.entry, h.removeMember(rs))).Methods("DELETE")
}

func (h *Handler) listMembers(rs roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.Staff.Members(r.Context(), rs.group)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, renderList(users, renderUser))
	}
}

func (h *Handler) addMember(rs roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req usernameRequest
		if !h.bind(w, r, &req) {
			return
		}
		user, err := h.Staff.Add(r.Context(), rs.group, req.Username)
		if err != nil {
			writeError(w, err)
			return
		}
		writeMessage(w, http.StatusCreated, fmt.Sprintf("%s added to (%s) group", user.Username, rs.group))
	}
}

func (h *Handler) getMember(rs roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, msgNotFound)
			return
		}
		user, err := h.Staff.Member(r.Context(), rs.group, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, renderUser(*user))
	}
}

func (h *Handler) removeMember(rs roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeDetail(w, http.StatusNotFound, msgNotFound)
			return
		}
		user, err := h.Staff.Remove(r.Context(), rs.group, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeMessage(w, http.StatusOK, fmt.Sprintf("%s removed from (%s) group", user.Username, rs.group))
	}
}
