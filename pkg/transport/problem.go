package transport

import (
	"encoding/json"
	"net/http"

	"github.com/marmos91/sequencer/pkg/sequencer"
)

// Problem represents an RFC 7807 "problem details" response.
// https://tools.ietf.org/html/rfc7807
type Problem struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

const contentTypeProblemJSON = "application/problem+json"

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", contentTypeProblemJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&Problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func badRequest(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusBadRequest, "Bad Request", detail)
}

func unauthorized(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusUnauthorized, "Unauthorized", detail)
}

func serviceUnavailable(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", detail)
}

func internalServerError(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", detail)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeSequencerError maps a sequencer.Error to the HTTP status spec.md §7
// assigns it: lease exhaustion and storage unavailability are transient
// conditions (503), a malformed request is a client error (400).
func writeSequencerError(w http.ResponseWriter, err error) {
	switch {
	case sequencer.IsLeaseExhausted(err), sequencer.IsStorageUnavailable(err):
		serviceUnavailable(w, err.Error())
	case sequencer.IsMalformedRequest(err):
		badRequest(w, err.Error())
	default:
		internalServerError(w, err.Error())
	}
}
