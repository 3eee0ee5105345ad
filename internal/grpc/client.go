package igrpc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// FriendshipClient queries the friendship service from sibling services.
type FriendshipClient struct {
	conn *grpc.ClientConn
}

func NewFriendshipClient(addr string, opts ...grpc.DialOption) (*FriendshipClient, error) {
	if addr == "" {
		return nil, fmt.Errorf("friendship gRPC address is required")
	}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial friendship gRPC: %w", err)
	}

	return &FriendshipClient{conn: conn}, nil
}

func (c *FriendshipClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *FriendshipClient) CanView(ctx context.Context, viewerID, targetID uuid.UUID) (bool, error) {
	return c.invoke(ctx, canViewMethod, map[string]any{
		"viewer_id": viewerID.String(),
		"target_id": targetID.String(),
	})
}

func (c *FriendshipClient) AreFriends(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	return c.invoke(ctx, areFriendsMethod, map[string]any{
		"user_id":   userID.String(),
		"friend_id": friendID.String(),
	})
}

func (c *FriendshipClient) invoke(ctx context.Context, method string, fields map[string]any) (bool, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return false, err
	}
	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(ctx, method, req, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}
