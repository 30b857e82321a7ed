package user_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasiliy-maslov/mongo-user-service/internal/config"
	"github.com/vasiliy-maslov/mongo-user-service/internal/db"
	"github.com/vasiliy-maslov/mongo-user-service/internal/user"
)

// testDB is set only when MONGO_DB_URI_TEST points at a reachable server.
var testDB *db.Manager

func TestMain(m *testing.M) {
	uri := os.Getenv("MONGO_DB_URI_TEST")
	if uri != "" {
		dbName := os.Getenv("MONGO_DB_NAME_TEST")
		if dbName == "" {
			dbName = "user_service_test"
		}

		manager := db.NewManager(config.MongoConfig{
			URI:            uri,
			Database:       dbName,
			ConnectTimeout: 10 * time.Second,
		})

		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := manager.Connect(connectCtx)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("db_name", dbName).Msg("Failed to connect to test database")
		}

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = manager.Ping(pingCtx)
		pingCancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to ping test database")
		}

		testDB = manager
		log.Info().Msg("Test Database connection established.")
	}

	exitCode := m.Run()

	if testDB != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = testDB.Close(closeCtx)
		cancel()
	}
	os.Exit(exitCode)
}

func dropUsersCollection(tb testing.TB) {
	tb.Helper()

	coll, err := testDB.Collection(user.CollectionName)
	require.NoError(tb, err)
	require.NoError(tb, coll.Drop(context.Background()))
}

func requireTestDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("MONGO_DB_URI_TEST is not set")
	}
	dropUsersCollection(t)
	t.Cleanup(func() { dropUsersCollection(t) })
}

func TestRepository_Mongo_CRUD(t *testing.T) {
	requireTestDB(t)

	repo := user.NewRepository(testDB)
	ctx := context.Background()
	stamp := time.Now().UTC().Truncate(time.Millisecond)

	id, err := repo.Create(ctx, &user.User{
		FirstName: ptr("A"),
		LastName:  ptr("B"),
		Email:     ptr("a@b.com"),
		Password:  ptr("x"),
		CreatedAt: stamp,
		UpdatedAt: stamp,
	})
	require.NoError(t, err)
	require.False(t, id.IsZero())

	found, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, "A", *found.FirstName)
	assert.True(t, found.CreatedAt.Equal(stamp))
	assert.True(t, found.UpdatedAt.Equal(found.CreatedAt))

	later := stamp.Add(time.Second)
	res, err := repo.Update(ctx, id, user.Patch{
		Fields:    user.Fields{Email: ptr("c@d.com")},
		UpdatedAt: later,
	})
	require.NoError(t, err)
	assert.Equal(t, user.UpdateResult{Matched: 1, Modified: 1}, res)

	found, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "c@d.com", *found.Email)
	assert.Equal(t, "B", *found.LastName)
	assert.True(t, found.CreatedAt.Equal(stamp))
	assert.True(t, found.UpdatedAt.Equal(later))

	deleted, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = repo.GetByID(ctx, id)
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestRepository_Mongo_UpdateUnknownID(t *testing.T) {
	requireTestDB(t)

	repo := user.NewRepository(testDB)

	res, err := repo.Update(context.Background(), bson.NewObjectID(), user.Patch{
		Fields:    user.Fields{FirstName: ptr("Z")},
		UpdatedAt: time.Now(),
	})

	require.NoError(t, err)
	assert.Equal(t, user.UpdateResult{}, res)
}

func TestRepository_NoConnection(t *testing.T) {
	manager := db.NewManager(config.MongoConfig{})
	require.Error(t, manager.Connect(context.Background()))

	repo := user.NewRepository(manager)
	ctx := context.Background()

	_, err := repo.Create(ctx, &user.User{})
	require.ErrorIs(t, err, db.ErrNoConnection)

	_, err = repo.GetByID(ctx, bson.NewObjectID())
	require.ErrorIs(t, err, db.ErrNoConnection)

	_, err = repo.Update(ctx, bson.NewObjectID(), user.Patch{})
	require.ErrorIs(t, err, db.ErrNoConnection)

	_, err = repo.Delete(ctx, bson.NewObjectID())
	require.ErrorIs(t, err, db.ErrNoConnection)
}
