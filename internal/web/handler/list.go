package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/jaekwang-park/todo-lists/internal/client"
	apihandler "github.com/jaekwang-park/todo-lists/internal/http/handler"
)

type ListHandler struct {
	api API
}

func NewListHandler(api API) *ListHandler {
	return &ListHandler{api: api}
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePageOrFail(w, r)
	if !ok {
		return
	}

	lists, err := h.api.GetLists(upstreamContext(r), page)
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req client.ListRequest
	if !apihandler.DecodeJSON(w, r, &req) {
		return
	}

	list, err := h.api.AddList(upstreamContext(r), req)
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteCreated(w, "/v1/lists/"+url.PathEscape(list.ID), list)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.api.GetList(upstreamContext(r), pathParam(r, "listID"))
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req client.ListRequest
	if !apihandler.DecodeJSON(w, r, &req) {
		return
	}

	list, err := h.api.UpdateList(upstreamContext(r), pathParam(r, "listID"), req)
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cascade := false
	if raw := r.URL.Query().Get("cascade"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apihandler.WriteError(w, http.StatusBadRequest, "INVALID_QUERY", "cascade must be a boolean")
			return
		}
		cascade = v
	}

	if err := h.api.DeleteList(upstreamContext(r), pathParam(r, "listID"), cascade); err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
