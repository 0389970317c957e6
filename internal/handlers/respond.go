// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sitesmith/internal/apperr"
)

// errorResponse is the JSON body returned for all failed requests.
type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// writeError maps an error to a JSON response, preserving the error's
// kind as a machine-readable code. Underlying error details are only
// included when dev is true.
func writeError(w http.ResponseWriter, err error, dev bool) {
	kind := apperr.KindOf(err)
	resp := errorResponse{
		Error: apperr.MessageOf(err),
		Code:  kind.Code(),
	}
	if dev {
		resp.Details = err.Error()
	}
	if kind != apperr.Validation {
		slog.Error("request failed", "code", kind.Code(), "error", err)
	}
	writeJSON(w, kind.Status(), resp)
}

// writeErrorMsg writes a JSON error with an explicit status and code,
// for failures that do not originate from an apperr value.
func writeErrorMsg(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
