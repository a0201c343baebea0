package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/objvault/drivefs/internal/errs"
	"github.com/objvault/drivefs/internal/logger"
)

// errorBody is the JSON shape of every error response. Message comes
// from errs.Error.Message, which is written to be client-safe; upstream
// causes stay in the server log only.
type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// partialBody extends errorBody with the per-key reconciliation report
// of a multi-key operation.
type partialBody struct {
	errorBody
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

func respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind errs.ErrKind, message string) {
	var body errorBody
	body.Error.Kind = kind.String()
	body.Error.Message = message
	respond(w, status, body)
}

// fail maps an error kind onto an HTTP status and writes the response.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	if pe, ok := errs.AsPartial(err); ok {
		log.ErrorWith("partial failure", err, map[string]any{
			"op": pe.Op, "succeeded": len(pe.Succeeded), "failed": len(pe.Failed),
		})
		body := partialBody{Succeeded: pe.Succeeded, Failed: make([]string, 0, len(pe.Failed))}
		body.Error.Kind = errs.ErrKindPartialFailure.String()
		body.Error.Message = pe.Error()
		for _, outcome := range pe.Failed {
			body.Failed = append(body.Failed, outcome.Key)
		}
		respond(w, http.StatusMultiStatus, body)
		return
	}

	status := http.StatusInternalServerError
	kind := errs.ErrKindUnknown
	message := "internal error"

	var de *errs.Error
	if errors.As(err, &de) {
		kind = de.Kind
		message = de.Message
		switch {
		case errs.IsValidation(err):
			status = http.StatusBadRequest
		case errs.IsNotFound(err):
			status = http.StatusNotFound
		case errs.IsQuotaExceeded(err):
			status = http.StatusRequestEntityTooLarge
		case errs.IsPermissionDenied(err):
			status = http.StatusForbidden
		case errs.IsTimeout(err):
			status = http.StatusGatewayTimeout
		case errs.IsUpstream(err):
			status = http.StatusBadGateway
			message = "object store unavailable"
		}
	}

	if status >= 500 {
		log.ErrorWith("request failed", err, map[string]any{"path": r.URL.Path})
	}
	writeError(w, status, kind, message)
}
