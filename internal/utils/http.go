// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONBodySize caps request bodies read by [DecodeJSON].
const MaxJSONBodySize = 1 << 20

var ErrInvalidJSON = errors.New("invalid JSON was passed")

// WriteJSON serializes data to JSON and writes it with statusCode and a
// "Content-Type: application/json" header. If marshaling fails it answers
// 500 and returns a wrapped error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// DecodeJSON decodes a single JSON object from r into dst. Unknown fields,
// trailing data, empty bodies and bodies over [MaxJSONBodySize] are
// rejected with [ErrInvalidJSON].
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body must contain a single JSON object", ErrInvalidJSON)
	}

	return nil
}
