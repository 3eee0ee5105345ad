package igrpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"secretshare-service/internal/mocks"
	"secretshare-service/internal/models"
	"secretshare-service/internal/repositories"
	"secretshare-service/internal/services"
)

type harness struct {
	friends *mocks.MockFriendRepository
	client  *FriendshipClient
	conn    *grpc.ClientConn
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	friends := new(mocks.MockFriendRepository)
	profiles := new(mocks.MockProfileRepository)
	friendSvc := services.NewFriendshipService(friends, profiles, nil, nil)
	messageSvc := services.NewMessageService(friendSvc, profiles, nil, nil)

	srv := NewServer(NewFriendshipGRPCServer(messageSvc, friendSvc), nil)
	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
	client, err := NewFriendshipClient("passthrough:///bufnet", dialer)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	t.Cleanup(func() { friends.AssertExpectations(t) })
	return &harness{friends: friends, client: client, conn: client.conn}
}

func TestCanViewOverTheWire(t *testing.T) {
	h := newHarness(t)
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	h.friends.On("FindRelationship", mock.Anything, bob, alice).
		Return(&models.Friendship{RequesterID: alice, ReceiverID: bob, Status: models.StatusAccepted}, nil).Once()
	h.friends.On("FindRelationship", mock.Anything, carol, alice).Return(nil, repositories.ErrNotFound).Once()

	ok, err := h.client.CanView(context.Background(), bob, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.client.CanView(context.Background(), carol, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = h.client.CanView(context.Background(), alice, alice)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAreFriendsOverTheWire(t *testing.T) {
	h := newHarness(t)
	alice, bob := uuid.New(), uuid.New()

	h.friends.On("FindRelationship", mock.Anything, alice, bob).
		Return(&models.Friendship{Status: models.StatusPending}, nil).Once()

	ok, err := h.client.AreFriends(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanViewStoreFailureIsInternal(t *testing.T) {
	h := newHarness(t)
	alice, bob := uuid.New(), uuid.New()

	h.friends.On("FindRelationship", mock.Anything, alice, bob).Return(nil, errors.New("pq: timeout")).Once()

	_, err := h.client.CanView(context.Background(), alice, bob)
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, status.Convert(err).Message(), "pq:")
}

func TestCanViewRejectsMalformedIDs(t *testing.T) {
	h := newHarness(t)

	tests := map[string]map[string]any{
		"missing viewer": {"target_id": uuid.NewString()},
		"bad target":     {"viewer_id": uuid.NewString(), "target_id": "42"},
	}
	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			req, err := structpb.NewStruct(fields)
			require.NoError(t, err)

			err = h.conn.Invoke(context.Background(), canViewMethod, req, new(wrapperspb.BoolValue))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestHealthServing(t *testing.T) {
	h := newHarness(t)

	resp, err := healthpb.NewHealthClient(h.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

type panickingGate struct{}

func (panickingGate) CanView(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	panic("boom")
}

func TestRecoveryConvertsPanics(t *testing.T) {
	srv := NewServer(NewFriendshipGRPCServer(panickingGate{}, nil), nil)
	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := NewFriendshipClient("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.CanView(context.Background(), uuid.New(), uuid.New())
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestNewFriendshipClientRequiresAddress(t *testing.T) {
	_, err := NewFriendshipClient("")
	assert.Error(t, err)
}
