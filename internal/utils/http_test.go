// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"tokenType": "Bearer"}

	n, err := WriteJSON(w, data, http.StatusCreated)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if n == 0 {
		t.Error("expected non-zero bytes written")
	}
	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", ct)
	}

	expected, _ := json.Marshal(data)
	if w.Body.String() != string(expected) {
		t.Errorf("expected body %s, got %s", expected, w.Body.String())
	}
}

func TestWriteJSON_InvalidData(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	if err == nil {
		t.Fatal("expected error for non-serializable data, got nil")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

type decodeTarget struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    decodeTarget
	}{
		{name: "valid", body: `{"identifier":"alice","password":"x"}`, want: decodeTarget{Identifier: "alice", Password: "x"}},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed", body: `{invalid json}`, wantErr: true},
		{name: "unknown field", body: `{"identifier":"alice","role":"ADMIN"}`, wantErr: true},
		{name: "two objects", body: `{"identifier":"a"}{"identifier":"b"}`, wantErr: true},
		{name: "too large", body: `{"identifier":"` + strings.Repeat("a", MaxJSONBodySize) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var got decodeTarget
			err := DecodeJSON(w, r, &got)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidJSON) {
					t.Fatalf("expected ErrInvalidJSON, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
