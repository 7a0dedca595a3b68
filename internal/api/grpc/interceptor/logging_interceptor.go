package interceptor

import (
	"context"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"appliance-rental-backend/internal/logger"
)

// Logging returns a unary interceptor that logs every RPC with its status code
func Logging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		if code == codes.OK {
			logger.DebugContext(ctx, "gRPC request", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start))
		} else {
			logger.WarnContext(ctx, "gRPC request failed", "method", info.FullMethod, "code", code.String(),
				"duration", time.Since(start), "error", err)
		}
		return resp, err
	}
}

// Recovery converts a panicking handler into codes.Internal
func Recovery() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "Panic recovered", "method", info.FullMethod, "panic", rec, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
