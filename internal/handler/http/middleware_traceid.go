// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const traceIDHeader = "X-Trace-ID"

// maxTraceIDLength bounds client supplied trace ids.
const maxTraceIDLength = 128

// withTraceID attaches a child logger carrying "trace_id" to the request
// context and echoes the id in the response. The id is taken from the
// request header when present and sane, otherwise a UUID is generated.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = uuid.NewString()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(ctx))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
