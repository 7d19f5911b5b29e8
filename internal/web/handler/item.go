package handler

import (
	"net/http"
	"net/url"

	"github.com/jaekwang-park/todo-lists/internal/client"
	apihandler "github.com/jaekwang-park/todo-lists/internal/http/handler"
)

type ItemHandler struct {
	api API
}

func NewItemHandler(api API) *ItemHandler {
	return &ItemHandler{api: api}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePageOrFail(w, r)
	if !ok {
		return
	}

	items, err := h.api.GetListItems(upstreamContext(r), pathParam(r, "listID"), page)
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) ListByState(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePageOrFail(w, r)
	if !ok {
		return
	}

	items, err := h.api.GetListItemsByState(upstreamContext(r), pathParam(r, "listID"), pathParam(r, "state"), page)
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req client.ItemRequest
	if !apihandler.DecodeJSON(w, r, &req) {
		return
	}

	listID := pathParam(r, "listID")
	item, err := h.api.AddListItem(upstreamContext(r), listID, req)
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteCreated(w, "/v1/lists/"+url.PathEscape(listID)+"/items/"+url.PathEscape(item.ID), item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.api.GetListItem(upstreamContext(r), pathParam(r, "listID"), pathParam(r, "itemID"))
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req client.ItemRequest
	if !apihandler.DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.api.UpdateListItem(upstreamContext(r), pathParam(r, "listID"), pathParam(r, "itemID"), req)
	if err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	apihandler.WriteJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.api.DeleteListItem(upstreamContext(r), pathParam(r, "listID"), pathParam(r, "itemID")); err != nil {
		handleUpstreamError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
