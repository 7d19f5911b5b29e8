package handler

import (
	"net/http"
	"strconv"

	"github.com/jaekwang-park/todo-lists/internal/service"
)

type ListHandler struct {
	svc *service.ListService
}

func NewListHandler(svc *service.ListService) *ListHandler {
	return &ListHandler{svc: svc}
}

// listRequest is the writable part of a list. Server-owned fields such as
// id and createdDate are ignored when present.
type listRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (req listRequest) input() service.ListInput {
	return service.ListInput{Name: req.Name, Description: req.Description}
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePageOrFail(w, r)
	if !ok {
		return
	}

	lists, err := h.svc.Lists(r.Context(), page)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	list, err := h.svc.CreateList(r.Context(), req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteCreated(w, "/lists/"+list.ID, list)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetList(r.Context(), pathParam(r, "listID"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	list, err := h.svc.UpdateList(r.Context(), pathParam(r, "listID"), req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

// Delete removes a list. Items are kept unless ?cascade=true.
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cascade := false
	if raw := r.URL.Query().Get("cascade"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "INVALID_QUERY", "cascade must be a boolean")
			return
		}
		cascade = v
	}

	if err := h.svc.DeleteList(r.Context(), pathParam(r, "listID"), cascade); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
