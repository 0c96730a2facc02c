package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/personalhub/hub/internal/export"
	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export streams every matching record as a file attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	req, err := exportRequest(r)
	if err != nil {
		fail(w, r, err, "export")
		return
	}

	file, err := h.exportService.Export(r.Context(), userID(r), req)
	if err != nil {
		fail(w, r, err, "export "+req.Resource)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(file.Body)
}

// Archive stores the export in object storage and answers with a download link.
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	req, err := exportRequest(r)
	if err != nil {
		fail(w, r, err, "archive export")
		return
	}

	archived, err := h.exportService.Archive(r.Context(), userID(r), req)
	if err != nil {
		fail(w, r, err, "archive "+req.Resource+" export")
		return
	}
	respond.JSON(w, http.StatusCreated, archived)
}

func exportRequest(r *http.Request) (service.ExportRequest, error) {
	q := r.URL.Query()
	now := requestNow(r)
	errs := validation.Errors{}
	req := service.ExportRequest{
		Resource: r.PathValue("resource"),
		Format:   q.Get("format"),
	}

	switch req.Resource {
	case export.ResourceTodos:
		req.Todos, req.Filters = todoFilter(q, errs, now)
	case export.ResourceGoals:
		req.Goals, req.Filters = goalFilter(q, errs)
	case export.ResourceEvents:
		req.Events, req.Filters = eventFilter(q, errs, now)
	case export.ResourceNotes:
		req.Notes, req.Filters = noteFilter(q)
	case export.ResourceMoments:
		req.Moments, req.Filters = momentFilter(q, errs, now)
	case export.ResourcePomodoroSessions:
		req.Sessions, req.Filters = sessionFilter(q, errs, now)
	}
	return req, errs.Err()
}
