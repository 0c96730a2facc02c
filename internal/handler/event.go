package handler

import (
	"net/http"

	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := validation.Errors{}
	filter, _ := eventFilter(q, errs, requestNow(r))
	page := validation.Pagination(errs, q.Get("limit"), q.Get("offset"))
	if err := errs.Err(); err != nil {
		fail(w, r, err, "list events")
		return
	}

	events, err := h.eventService.List(r.Context(), userID(r), filter, page)
	if err != nil {
		fail(w, r, err, "list events")
		return
	}
	respond.JSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.ByID(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "get event")
		return
	}
	respond.JSON(w, http.StatusOK, event)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.EventInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode event")
		return
	}

	event, err := h.eventService.Create(r.Context(), userID(r), in)
	if err != nil {
		fail(w, r, err, "create event")
		return
	}
	respond.JSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.EventInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode event")
		return
	}

	event, err := h.eventService.Update(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err, "update event")
		return
	}
	respond.JSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		fail(w, r, err, "delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
