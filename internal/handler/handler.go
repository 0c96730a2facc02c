package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/personalhub/hub/internal/ctxkeys"
	"github.com/personalhub/hub/internal/repository"
	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
	"github.com/personalhub/hub/internal/validation"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed JSON body")

// decode reads a JSON request body into dst. An empty body leaves dst as is.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errMalformedBody
}

// fail maps a service error onto the error envelope. Anything unrecognised
// is logged with the action and answered with a generic 500.
func fail(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		respond.Fields(w, verrs)
	case errors.Is(err, errMalformedBody):
		respond.Error(w, http.StatusBadRequest, respond.CodeBadRequest, "Request body must be valid JSON")
	case errors.Is(err, repository.ErrNotFound):
		respond.Error(w, http.StatusNotFound, respond.CodeNotFound, "Resource not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrStorageUnavailable):
		respond.Error(w, http.StatusServiceUnavailable, respond.CodeUnavailable, "Export storage is not configured")
	default:
		slog.Error("failed to "+action, "error", err, "user_id", userID(r), "request_id", ctxkeys.RequestID(r.Context()))
		respond.Error(w, http.StatusInternalServerError, respond.CodeInternal, "Something went wrong")
	}
}

func userID(r *http.Request) string {
	if user := ctxkeys.User(r.Context()); user != nil {
		return user.ID
	}
	return ""
}

// requestNow is the request time in the configured zone; relative query
// dates such as "yesterday" resolve against it.
func requestNow(r *http.Request) time.Time {
	loc := time.Local
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		loc = cfg.Location()
	}
	return time.Now().In(loc)
}
