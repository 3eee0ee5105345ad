//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"secretshare-service/internal/config"
	"secretshare-service/internal/db"
	"secretshare-service/internal/models"
	"secretshare-service/internal/repositories"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "secretshare_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/secretshare_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) (repositories.ProfileRepository, repositories.FriendRepository) {
	t.Helper()
	conn, err := db.Connect(context.Background(), config.Database{DSN: dsn, MaxOpenConns: 10, MaxIdleConns: 5})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return repositories.NewProfileRepository(conn), repositories.NewFriendRepository(conn)
}

func newProfile(t *testing.T, profiles repositories.ProfileRepository) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := profiles.Ensure(context.Background(), id, id.String()+"@example.com")
	require.NoError(t, err)
	return id
}

func TestUniquePairRejectsMutualRequests(t *testing.T) {
	ctx := context.Background()
	profiles, friends := connect(t)
	alice, bob := newProfile(t, profiles), newProfile(t, profiles)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, pair := range [][2]uuid.UUID{{alice, bob}, {bob, alice}} {
		wg.Add(1)
		go func(i int, from, to uuid.UUID) {
			defer wg.Done()
			_, errs[i] = friends.Create(ctx, from, to)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, repositories.ErrDuplicatePair)
	}
	assert.Equal(t, 1, succeeded)

	row, err := friends.FindRelationship(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, row.Status)
}

func TestAcceptPendingWinsOnce(t *testing.T) {
	ctx := context.Background()
	profiles, friends := connect(t)
	alice, bob := newProfile(t, profiles), newProfile(t, profiles)

	row, err := friends.Create(ctx, alice, bob)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = friends.AcceptPending(ctx, row.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, repositories.ErrNotPending)
	}
	assert.Equal(t, 1, succeeded)
}

func TestSelfFriendshipRejectedByStore(t *testing.T) {
	profiles, friends := connect(t)
	alice := newProfile(t, profiles)

	_, err := friends.Create(context.Background(), alice, alice)
	assert.Error(t, err)
}

func TestDeleteProfileCascades(t *testing.T) {
	ctx := context.Background()
	profiles, friends := connect(t)
	alice, bob := newProfile(t, profiles), newProfile(t, profiles)

	row, err := friends.Create(ctx, alice, bob)
	require.NoError(t, err)
	_, err = friends.UpdateStatus(ctx, row.ID, models.StatusAccepted)
	require.NoError(t, err)

	require.NoError(t, profiles.Delete(ctx, alice))

	_, err = friends.GetByID(ctx, row.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	list, err := friends.ListAccepted(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpsertSecretMessageCreatesProfile(t *testing.T) {
	ctx := context.Background()
	profiles, _ := connect(t)
	id := uuid.New()

	p, err := profiles.UpsertSecretMessage(ctx, id, id.String()+"@example.com", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", p.Message())

	p, err = profiles.UpsertSecretMessage(ctx, id, id.String()+"@example.com", "bye")
	require.NoError(t, err)
	assert.Equal(t, "bye", p.Message())

	got, err := profiles.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bye", got.Message())
}
