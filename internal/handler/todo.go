package handler

import (
	"net/http"

	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := validation.Errors{}
	filter, _ := todoFilter(q, errs, requestNow(r))
	page := validation.Pagination(errs, q.Get("limit"), q.Get("offset"))
	if err := errs.Err(); err != nil {
		fail(w, r, err, "list todos")
		return
	}

	todos, err := h.todoService.List(r.Context(), userID(r), filter, page)
	if err != nil {
		fail(w, r, err, "list todos")
		return
	}
	respond.JSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todoService.ByID(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "get todo")
		return
	}
	respond.JSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Children(w http.ResponseWriter, r *http.Request) {
	children, err := h.todoService.Children(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "list todo children")
		return
	}
	respond.JSON(w, http.StatusOK, children)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.TodoInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode todo")
		return
	}

	todo, err := h.todoService.Create(r.Context(), userID(r), in)
	if err != nil {
		fail(w, r, err, "create todo")
		return
	}
	respond.JSON(w, http.StatusCreated, todo)
}

// Update serves both PUT and PATCH; only supplied fields change.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.TodoInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode todo")
		return
	}

	todo, err := h.todoService.Update(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err, "update todo")
		return
	}
	respond.JSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todoService.ToggleStatus(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "toggle todo status")
		return
	}
	respond.JSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.todoService.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		fail(w, r, err, "delete todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
