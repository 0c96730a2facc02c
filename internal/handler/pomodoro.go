package handler

import (
	"net/http"

	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

const defaultStatsDays = 7

type PomodoroHandler struct {
	pomodoroService *service.PomodoroService
}

func NewPomodoroHandler(pomodoroService *service.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{pomodoroService: pomodoroService}
}

func (h *PomodoroHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.pomodoroService.Config(r.Context(), userID(r))
	if err != nil {
		fail(w, r, err, "get pomodoro config")
		return
	}
	respond.JSON(w, http.StatusOK, cfg)
}

func (h *PomodoroHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var in service.PomodoroConfigInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode pomodoro config")
		return
	}

	cfg, err := h.pomodoroService.UpdateConfig(r.Context(), userID(r), in)
	if err != nil {
		fail(w, r, err, "update pomodoro config")
		return
	}
	respond.JSON(w, http.StatusOK, cfg)
}

func (h *PomodoroHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := validation.Errors{}
	filter, _ := sessionFilter(q, errs, requestNow(r))
	page := validation.Pagination(errs, q.Get("limit"), q.Get("offset"))
	if err := errs.Err(); err != nil {
		fail(w, r, err, "list pomodoro sessions")
		return
	}

	sessions, err := h.pomodoroService.List(r.Context(), userID(r), filter, page)
	if err != nil {
		fail(w, r, err, "list pomodoro sessions")
		return
	}
	respond.JSON(w, http.StatusOK, sessions)
}

// Active answers null when no session is running.
func (h *PomodoroHandler) Active(w http.ResponseWriter, r *http.Request) {
	active, err := h.pomodoroService.Active(r.Context(), userID(r))
	if err != nil {
		fail(w, r, err, "get active pomodoro session")
		return
	}
	respond.JSON(w, http.StatusOK, active)
}

func (h *PomodoroHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.pomodoroService.ByID(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "get pomodoro session")
		return
	}
	respond.JSON(w, http.StatusOK, session)
}

func (h *PomodoroHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.SessionInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode pomodoro session")
		return
	}

	session, err := h.pomodoroService.Create(r.Context(), userID(r), in)
	if err != nil {
		fail(w, r, err, "create pomodoro session")
		return
	}
	respond.JSON(w, http.StatusCreated, session)
}

func (h *PomodoroHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.SessionInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode pomodoro session")
		return
	}

	session, err := h.pomodoroService.Update(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err, "update pomodoro session")
		return
	}
	respond.JSON(w, http.StatusOK, session)
}

func (h *PomodoroHandler) Complete(w http.ResponseWriter, r *http.Request) {
	session, err := h.pomodoroService.Complete(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "complete pomodoro session")
		return
	}
	respond.JSON(w, http.StatusOK, session)
}

func (h *PomodoroHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.pomodoroService.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		fail(w, r, err, "delete pomodoro session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PomodoroHandler) Stats(w http.ResponseWriter, r *http.Request) {
	errs := validation.Errors{}
	days := validation.QueryInt(errs, "days", r.URL.Query().Get("days"), defaultStatsDays, 1, 365)
	if err := errs.Err(); err != nil {
		fail(w, r, err, "get pomodoro stats")
		return
	}

	stats, err := h.pomodoroService.Stats(r.Context(), userID(r), days)
	if err != nil {
		fail(w, r, err, "get pomodoro stats")
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}
