package interceptor

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rental-marketplace-backend/internal/config"
	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/security"
)

type actorKey struct{}

// ActorFromContext returns the caller authenticated by the interceptor.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(domain.Actor)
	return a, ok
}

type AuthInterceptor struct {
	tokenManager security.TokenManager
}

func NewAuthInterceptor(tm security.TokenManager) *AuthInterceptor {
	return &AuthInterceptor{tokenManager: tm}
}

// Unary returns a server interceptor function to authenticate and authorize unary RPCs
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		level := config.LevelFor(info.FullMethod)

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			return handler(ctx, req)
		}

		token, err := i.extractToken(ctx)
		if err != nil {
			return nil, err
		}

		claims, err := i.tokenManager.ValidateToken(token)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
		}

		actor := claims.Actor()
		if err := checkSecurityLevel(level, actor); err != nil {
			return nil, err
		}
		logger.Debug("gRPC call authenticated", "method", info.FullMethod, "user_id", actor.UserID)

		return handler(context.WithValue(ctx, actorKey{}, actor), req)
	}
}

func (i *AuthInterceptor) extractToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	authHeader := md["authorization"]
	if len(authHeader) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization token is not provided")
	}

	token := authHeader[0]
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}

	return token, nil
}

func checkSecurityLevel(level config.SecurityLevel, actor domain.Actor) error {
	switch level {
	case config.SecurityLandlord:
		if actor.Role != domain.UserRoleLandlord && actor.Role != domain.UserRoleAdmin {
			return status.Error(codes.PermissionDenied, "landlord role required")
		}
	case config.SecurityAdmin:
		if actor.Role != domain.UserRoleAdmin {
			return status.Error(codes.PermissionDenied, "admin role required")
		}
	}
	return nil
}
