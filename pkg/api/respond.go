package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/matzehuels/slidegraph/pkg/cursor"
	errs "github.com/matzehuels/slidegraph/pkg/errors"
	"github.com/matzehuels/slidegraph/pkg/session"
)

// maxBodyBytes bounds request bodies. Board text is far smaller.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError classifies err and writes the error envelope.
func writeError(w http.ResponseWriter, err error) {
	err = classify(err)
	code := errs.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{Error: errorDetail{Code: code, Message: errs.UserMessage(err)}})
}

// classify attaches a code to sentinel errors from lower layers.
func classify(err error) error {
	if errs.GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, session.ErrNotFound):
		return errs.Wrap(errs.ErrCodeSessionNotFound, err, "load walk")
	case errors.Is(err, session.ErrInvalidID):
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "walk id")
	case errors.Is(err, cursor.ErrUnknownState):
		return errs.Wrap(errs.ErrCodeInvalidState, err, "select")
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "internal error")
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidBoard, errs.ErrCodeInvalidFormat,
		errs.ErrCodeInvalidGraph, errs.ErrCodeInvalidState:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound, errs.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.New(errs.ErrCodeInvalidInput, "request body is empty")
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request")
	}
	if dec.More() {
		return errs.New(errs.ErrCodeInvalidInput, "request body has trailing data")
	}
	return nil
}

// contentTypes maps pipeline formats to response media types.
var contentTypes = map[string]string{
	"json":  "application/json",
	"dot":   "text/vnd.graphviz; charset=utf-8",
	"svg":   "image/svg+xml",
	"png":   "image/png",
	"board": "image/png",
}

func contentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}
