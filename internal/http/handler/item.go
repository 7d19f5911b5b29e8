package handler

import (
	"net/http"
	"time"

	"github.com/jaekwang-park/todo-lists/internal/service"
)

type ItemHandler struct {
	svc *service.ListService
}

func NewItemHandler(svc *service.ListService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

type itemRequest struct {
	Name          string     `json:"name"`
	State         string     `json:"state"`
	Description   *string    `json:"description"`
	DueDate       *time.Time `json:"dueDate"`
	CompletedDate *time.Time `json:"completedDate"`
}

func (req itemRequest) input() service.ItemInput {
	return service.ItemInput{
		Name:          req.Name,
		State:         req.State,
		Description:   req.Description,
		DueDate:       req.DueDate,
		CompletedDate: req.CompletedDate,
	}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePageOrFail(w, r)
	if !ok {
		return
	}

	items, err := h.svc.Items(r.Context(), pathParam(r, "listID"), page)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) ListByState(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePageOrFail(w, r)
	if !ok {
		return
	}

	items, err := h.svc.ItemsByState(r.Context(), pathParam(r, "listID"), pathParam(r, "state"), page)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	listID := pathParam(r, "listID")
	item, err := h.svc.CreateItem(r.Context(), listID, req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteCreated(w, "/lists/"+listID+"/items/"+item.ID, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetItem(r.Context(), pathParam(r, "listID"), pathParam(r, "itemID"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.svc.UpdateItem(r.Context(), pathParam(r, "listID"), pathParam(r, "itemID"), req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteItem(r.Context(), pathParam(r, "listID"), pathParam(r, "itemID")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
