// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "net/http"

// responseWriter is a thin decorator around [http.ResponseWriter] that
// intercepts WriteHeader and Write calls to capture response metadata.
//
// It is used by middleware (withLogging, withMetrics) to observe the status
// code and the number of body bytes after the downstream handler has
// returned, without buffering the response.
//
// WriteHeader is forwarded to the underlying writer exactly once;
// subsequent calls are ignored, mirroring the [http.ResponseWriter]
// contract.
type responseWriter struct {
	http.ResponseWriter

	// status is zero until WriteHeader (or an implicit one via Write) runs.
	status int

	wroteHeader bool

	// size is the running total of body bytes written.
	size int
}

// wrapResponseWriter returns w itself when it is already a *responseWriter,
// so stacked middleware observe the same counters.
func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w}
}

// WriteHeader records the status code and forwards it once.
func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write writes b to the underlying writer, implicitly sending 200 first
// when no status has been written yet.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Status reports the written status, or 200 when the handler wrote nothing.
func (w *responseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
