package handler

import (
	"net/http"

	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := validation.Errors{}
	page := validation.Pagination(errs, q.Get("limit"), q.Get("offset"))
	if err := errs.Err(); err != nil {
		fail(w, r, err, "search")
		return
	}

	types, err := service.ParseSearchTypes(q.Get("types"))
	if err != nil {
		fail(w, r, err, "search")
		return
	}

	results, err := h.searchService.Search(r.Context(), userID(r), q.Get("query"), types, page)
	if err != nil {
		fail(w, r, err, "search")
		return
	}
	respond.JSON(w, http.StatusOK, results)
}
