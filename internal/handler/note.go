package handler

import (
	"net/http"

	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

type noteHTML struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := validation.Errors{}
	filter, _ := noteFilter(q)
	page := validation.Pagination(errs, q.Get("limit"), q.Get("offset"))
	if err := errs.Err(); err != nil {
		fail(w, r, err, "list notes")
		return
	}

	notes, err := h.noteService.List(r.Context(), userID(r), filter, page)
	if err != nil {
		fail(w, r, err, "list notes")
		return
	}
	respond.JSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.noteService.ByID(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		fail(w, r, err, "get note")
		return
	}
	respond.JSON(w, http.StatusOK, note)
}

// HTML renders the note's markdown with frontmatter stripped.
func (h *NoteHandler) HTML(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	html, err := h.noteService.HTML(r.Context(), userID(r), id)
	if err != nil {
		fail(w, r, err, "render note")
		return
	}
	respond.JSON(w, http.StatusOK, noteHTML{ID: id, HTML: html})
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.NoteInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode note")
		return
	}

	note, err := h.noteService.Create(r.Context(), userID(r), in)
	if err != nil {
		fail(w, r, err, "create note")
		return
	}
	respond.JSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.NoteInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err, "decode note")
		return
	}

	note, err := h.noteService.Update(r.Context(), userID(r), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err, "update note")
		return
	}
	respond.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.noteService.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		fail(w, r, err, "delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
