package handler

import (
	"net/http"

	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

type MomentHandler struct {
	momentService *service.MomentService
}

func NewMomentHandler(momentService *service.MomentService) *MomentHandler {
	return &MomentHandler{momentService: momentService}
}

func (h *MomentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := validation.Errors{}
	filter, _ := momentFilter(q, errs, requestNow(r))
	page := validation.Pagination(errs, q.Get("limit"), q.Get("offset"))
	if err := errs.Err(); err != nil {
		fail(w, r, err, "list moments")
		return
	}

	moments, err := h.momentService.List(r.Context(), userID(r), filter, page)
	if err != nil {
		fail(w, r, err, "list moments")
		return
	}
	respond.JSON(w, http.StatusOK, moments)
}

func (h *MomentHandler) Get(w http.ResponseWriter, r *http.Request) {
	moment, err := h.momentService.ByID(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "get moment")
		return
	}
	respond.JSON(w, http.StatusOK, moment)
}

func (h *MomentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.MomentInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode moment")
		return
	}

	moment, err := h.momentService.Create(r.Context(), userID(r), in)
	if err != nil {
		fail(w, r, err, "create moment")
		return
	}
	respond.JSON(w, http.StatusCreated, moment)
}

func (h *MomentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.MomentInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode moment")
		return
	}

	moment, err := h.momentService.Update(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err, "update moment")
		return
	}
	respond.JSON(w, http.StatusOK, moment)
}

func (h *MomentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.momentService.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		fail(w, r, err, "delete moment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
