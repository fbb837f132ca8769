package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"hospital-management-api/internal/model"
	"hospital-management-api/internal/respond"
	"hospital-management-api/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// Authenticator resolves a raw bearer token to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.User, error)
}

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the caller attached by Auth or AuthInterceptor.
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}

// Auth rejects requests without a valid Authorization: Bearer <jwt>.
func Auth(a Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearer(r.Header.Get("Authorization"))
			if err != nil {
				respond.Error(log, w, r, err)
				return
			}
			u, err := a.Authenticate(r.Context(), raw)
			if err != nil {
				respond.Error(log, w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func bearer(header string) (string, error) {
	if header == "" {
		return "", &service.Error{Kind: service.ErrUnauthorized, Msg: "missing token"}
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", &service.Error{Kind: service.ErrUnauthorized, Msg: "invalid authorization header, use: Bearer <token>"}
	}
	return parts[1], nil
}

// AuthInterceptor is the gRPC form of Auth, reading the authorization
// metadata key. Methods in open skip the check.
func AuthInterceptor(a Authenticator, open map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		header := ""
		if vals := md.Get("authorization"); len(vals) > 0 {
			header = vals[0]
		}
		raw, err := bearer(header)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		u, err := a.Authenticate(ctx, raw)
		if err != nil {
			var se *service.Error
			if !errors.As(err, &se) {
				return nil, status.Error(codes.Internal, "internal error")
			}
			return nil, status.Error(codes.Unauthenticated, se.Msg)
		}
		return next(WithUser(ctx, u), req)
	}
}
