package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/errs"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// envelope is the body of every JSON response. success is always set.
type envelope map[string]any

// jsonResponse writes a JSON response with the given status code. The body
// is encoded before the header goes out, so an unencodable body becomes a
// 500 instead of a truncated success.
func jsonResponse(w http.ResponseWriter, status int, body envelope) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		zap.L().Error("encoding response failed", zap.Int("status", status), zap.Error(err))
		buf.Reset()
		buf.WriteString(`{"message":"internal server error","success":false}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		zap.L().Debug("writing response failed", zap.Error(err))
	}
}

// jsonSuccess writes {"success": true, ...fields}.
func jsonSuccess(w http.ResponseWriter, status int, fields envelope) {
	body := envelope{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	jsonResponse(w, status, body)
}

// jsonError writes {"success": false, "message": message}.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, envelope{"success": false, "message": message})
}

// writeError maps a classified error onto its status and client message.
// Server-side failures are logged with their cause; clients only ever see
// the generic message.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	kind := errs.KindOf(err)
	status := kind.Status()
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
	}
	jsonError(w, status, errs.ClientMessage(err))
}

// decodeJSON decodes a JSON request body into target. Any failure is a
// validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errs.E(errs.Validation, "request body missing")
		case errors.As(err, &tooLarge):
			return errs.E(errs.Validation, "request body too large")
		default:
			return errs.Wrap(errs.Validation, "invalid request body", err)
		}
	}
	return nil
}
