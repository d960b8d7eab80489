// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// traceIDMetadataKey mirrors the HTTP X-Trace-ID header.
const traceIDMetadataKey = "x-trace-id"

// UnaryLoggingInterceptor attaches a child logger carrying "trace_id" and
// "method" to the call context, echoes the trace id in the response
// header and writes one access log line per call.
func (h *Handler) UnaryLoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	traceID := traceIDFromMetadata(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID).Str("method", info.FullMethod)
	})
	ctx = l.WithContext(ctx)

	_ = grpc.SetHeader(ctx, metadata.Pairs(traceIDMetadataKey, traceID))

	resp, err := handler(ctx, req)

	code := status.Code(err)
	l.Info().
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

func traceIDFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(traceIDMetadataKey)
	if len(values) == 0 || len(values[0]) > 128 {
		return ""
	}
	return values[0]
}
