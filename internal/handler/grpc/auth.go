// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"errors"
	"strconv"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AuthServiceName is the fully qualified name of the token introspection
// service. It is also the health check service name.
const AuthServiceName = "forum.auth.v1.AuthService"

const authenticateMethod = "/" + AuthServiceName + "/Authenticate"

// authServer is the handler type bound to the service descriptor.
type authServer interface {
	Authenticate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func registerAuthService(registrar grpc.ServiceRegistrar, srv authServer) {
	registrar.RegisterService(&grpc.ServiceDesc{
		ServiceName: AuthServiceName,
		HandlerType: (*authServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Authenticate",
				Handler:    authenticateHandler,
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "forum/auth/v1/auth.proto",
	}, srv)
}

func authenticateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &structpb.Struct{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(authServer).Authenticate(ctx, req)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: authenticateMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		typed, ok := req.(*structpb.Struct)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "invalid request type")
		}
		return srv.(authServer).Authenticate(ctx, typed)
	}
	return interceptor(ctx, req, info, handler)
}

// Authenticate resolves {"token": "<access token>"} into the principal it
// belongs to: {"id", "username", "authorities"}. The id is a decimal string
// since struct numbers are doubles.
func (h *Handler) Authenticate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := req.GetFields()["token"].GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	principal, err := h.services.AuthService.Authenticate(ctx, token)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	authorities := make([]any, 0, len(principal.Authorities))
	for _, authority := range principal.Authorities {
		authorities = append(authorities, authority)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"id":          strconv.FormatInt(principal.UserID, 10),
		"username":    principal.Username,
		"authorities": authorities,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

// toStatus maps service errors onto gRPC codes with the same client-safe
// messages the HTTP layer uses.
func (h *Handler) toStatus(ctx context.Context, err error) error {
	log := logger.FromContext(ctx)

	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		log.Debug().Err(err).Msg("token rejected")
		return status.Error(codes.Unauthenticated, "authentication failed")
	case errors.Is(err, service.ErrValidationFailed):
		return status.Error(codes.InvalidArgument, "validation failed")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	default:
		log.Err(err).Msg("token introspection failed")
		return status.Error(codes.Internal, "internal server error")
	}
}
