package igrpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"secretshare-service/internal/apperror"
)

const (
	ServiceName      = "friendship.v1.FriendshipInternal"
	canViewMethod    = "/" + ServiceName + "/CanView"
	areFriendsMethod = "/" + ServiceName + "/AreFriends"
)

// Gate is the secret-message authorization check.
type Gate interface {
	CanView(ctx context.Context, viewerID, targetID uuid.UUID) (bool, error)
}

// FriendChecker answers whether two users share an accepted friendship.
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// FriendshipInternalServer is the internal authorization surface for sibling
// services. Requests are Structs carrying string UUID fields.
type FriendshipInternalServer interface {
	CanView(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error)
	AreFriends(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error)
}

var FriendshipInternalServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FriendshipInternalServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CanView", Handler: canViewHandler},
		{MethodName: "AreFriends", Handler: areFriendsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "friendship/v1/friendship.proto",
}

var _ FriendshipInternalServer = (*FriendshipGRPCServer)(nil)

type FriendshipGRPCServer struct {
	gate    Gate
	friends FriendChecker
}

func NewFriendshipGRPCServer(gate Gate, friends FriendChecker) *FriendshipGRPCServer {
	return &FriendshipGRPCServer{gate: gate, friends: friends}
}

func (s *FriendshipGRPCServer) CanView(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	viewerID, err := uuidField(req, "viewer_id", "user_id")
	if err != nil {
		return nil, toStatus(err)
	}
	targetID, err := uuidField(req, "target_id", "friend_id")
	if err != nil {
		return nil, toStatus(err)
	}

	allowed, err := s.gate.CanView(ctx, viewerID, targetID)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(allowed), nil
}

func (s *FriendshipGRPCServer) AreFriends(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	userID, err := uuidField(req, "user_id", "viewer_id")
	if err != nil {
		return nil, toStatus(err)
	}
	friendID, err := uuidField(req, "friend_id", "target_id")
	if err != nil {
		return nil, toStatus(err)
	}

	friends, err := s.friends.AreFriends(ctx, userID, friendID)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(friends), nil
}

// NewServer builds a gRPC server with the friendship service, health and
// reflection registered.
func NewServer(impl FriendshipInternalServer, logger *zap.Logger) *grpc.Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(interceptorLogger(logger), logging.WithLogOnEvents(logging.FinishCall)),
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(func(p any) error {
				logger.Error("panic in gRPC handler", zap.Any("panic", p))
				return status.Error(codes.Internal, "Something went wrong")
			})),
		),
	)
	srv.RegisterService(&FriendshipInternalServiceDesc, impl)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	reflection.Register(srv)
	return srv
}

func StartGRPCServer(ctx context.Context, addr string, srv *grpc.Server, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	logger.Info("gRPC server listening", zap.String("addr", addr))
	return nil
}

func canViewHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FriendshipInternalServer).CanView(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: canViewMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FriendshipInternalServer).CanView(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func areFriendsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FriendshipInternalServer).AreFriends(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: areFriendsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FriendshipInternalServer).AreFriends(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// uuidField reads the first present key as a UUID string.
func uuidField(req *structpb.Struct, keys ...string) (uuid.UUID, error) {
	fields := req.GetFields()
	for _, key := range keys {
		v, ok := fields[key]
		if !ok {
			continue
		}
		id, err := uuid.Parse(v.GetStringValue())
		if err != nil {
			return uuid.Nil, apperror.Validation(key, key+" must be a UUID")
		}
		return id, nil
	}
	return uuid.Nil, apperror.Validation(keys[0], keys[0]+" is required")
}

var codeByKind = map[apperror.Kind]codes.Code{
	apperror.KindValidation:            codes.InvalidArgument,
	apperror.KindSelfReference:         codes.InvalidArgument,
	apperror.KindNotFound:              codes.NotFound,
	apperror.KindAlreadyFriends:        codes.AlreadyExists,
	apperror.KindRequestAlreadyPending: codes.AlreadyExists,
	apperror.KindConflict:              codes.AlreadyExists,
	apperror.KindInvalidState:          codes.FailedPrecondition,
	apperror.KindUnauthorized:          codes.PermissionDenied,
	apperror.KindAuthorization:         codes.PermissionDenied,
	apperror.KindInternal:              codes.Internal,
}

func toStatus(err error) error {
	appErr := apperror.From(err)
	code, ok := codeByKind[appErr.Kind]
	if !ok {
		code = codes.Internal
	}
	return status.Error(code, appErr.Message)
}

func interceptorLogger(l *zap.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		f := make([]zap.Field, 0, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			key, ok := fields[i].(string)
			if !ok {
				continue
			}
			f = append(f, zap.Any(key, fields[i+1]))
		}

		logger := l.WithOptions(zap.AddCallerSkip(1)).With(f...)
		switch lvl {
		case logging.LevelDebug:
			logger.Debug(msg)
		case logging.LevelInfo:
			logger.Info(msg)
		case logging.LevelWarn:
			logger.Warn(msg)
		case logging.LevelError:
			logger.Error(msg)
		default:
			logger.Info(msg)
		}
	})
}
