package handler

import (
	"net/http"

	"github.com/personalhub/hub/internal/model"
	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

// progressResponse carries the new entry with the goal it moved.
type progressResponse struct {
	Progress *model.GoalProgress `json:"progress"`
	Goal     *model.Goal         `json:"goal"`
}

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := validation.Errors{}
	filter, _ := goalFilter(q, errs)
	page := validation.Pagination(errs, q.Get("limit"), q.Get("offset"))
	if err := errs.Err(); err != nil {
		fail(w, r, err, "list goals")
		return
	}

	goals, err := h.goalService.List(r.Context(), userID(r), filter, page)
	if err != nil {
		fail(w, r, err, "list goals")
		return
	}
	respond.JSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.ByID(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "get goal")
		return
	}
	respond.JSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.GoalInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode goal")
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID(r), in)
	if err != nil {
		fail(w, r, err, "create goal")
		return
	}
	respond.JSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.GoalInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode goal")
		return
	}

	goal, err := h.goalService.Update(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err, "update goal")
		return
	}
	respond.JSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.goalService.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		fail(w, r, err, "delete goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	entries, err := h.goalService.Progress(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "list goal progress")
		return
	}
	respond.JSON(w, http.StatusOK, entries)
}

func (h *GoalHandler) AddProgress(w http.ResponseWriter, r *http.Request) {
	var in service.ProgressInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode goal progress")
		return
	}

	entry, goal, err := h.goalService.AddProgress(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err, "add goal progress")
		return
	}
	respond.JSON(w, http.StatusCreated, progressResponse{Progress: entry, Goal: goal})
}

func (h *GoalHandler) DeleteProgress(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.DeleteProgress(r.Context(), userID(r), r.PathValue("goalId"), r.PathValue("progressId"))
	if err != nil {
		fail(w, r, err, "delete goal progress")
		return
	}
	respond.JSON(w, http.StatusOK, goal)
}
