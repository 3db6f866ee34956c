package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rental-marketplace-backend/internal/config"
	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/security"
)

func TestUnary(t *testing.T) {
	tm := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	user := &domain.User{ID: uuid.New(), Email: "u@example.com", Role: domain.UserRoleUser}
	token, err := tm.GenerateAccessToken(user)
	require.NoError(t, err)

	unary := NewAuthInterceptor(tm).Unary()
	var seen domain.Actor
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = ActorFromContext(ctx)
		return "ok", nil
	}
	call := func(ctx context.Context, method string) error {
		_, err := unary(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
		return err
	}
	withToken := func(tok string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))
	}

	t.Run("PublicHealthCheck", func(t *testing.T) {
		assert.NoError(t, call(context.Background(), config.RouteHealthCheck))
	})

	t.Run("MissingMetadata", func(t *testing.T) {
		err := call(context.Background(), "/rental.v1.Orders/Get")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("InvalidToken", func(t *testing.T) {
		err := call(withToken("garbage"), "/rental.v1.Orders/Get")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("AccessInjectsActor", func(t *testing.T) {
		require.NoError(t, call(withToken(token), "/rental.v1.Orders/Get"))
		assert.Equal(t, user.ID, seen.UserID)
		assert.Equal(t, domain.UserRoleUser, seen.Role)
	})

	t.Run("AdminDenied", func(t *testing.T) {
		err := call(withToken(token), config.RouteCreateCoupon)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})
}
