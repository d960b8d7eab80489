// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogging_WritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register?x=1", nil)
	req.Header.Set(traceIDHeader, "log-trace")
	rr := httptest.NewRecorder()
	h.withTraceID(h.withLogging(next)).ServeHTTP(rr, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())

	assert.Equal(t, "/api/auth/register?x=1", line["uri"])
	assert.Equal(t, http.MethodPost, line["method"])
	assert.EqualValues(t, http.StatusCreated, line["status"])
	assert.EqualValues(t, len(`{"ok":true}`), line["size"])
	assert.Equal(t, "log-trace", line["trace_id"])
	assert.Contains(t, line, "duration")
}

func TestWithLogging_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: &logger.Logger{Logger: zerolog.New(&buf)}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	h.withTraceID(h.withLogging(next)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.EqualValues(t, http.StatusOK, line["status"])
	assert.EqualValues(t, 0, line["size"])
}
