package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/mongo-user-service/internal/config"
	"github.com/vasiliy-maslov/mongo-user-service/internal/db"
)

func TestManager_EmptyBeforeConnect(t *testing.T) {
	manager := db.NewManager(config.MongoConfig{URI: "mongodb://localhost:27017", Database: "test"})

	database, err := manager.Database()
	require.ErrorIs(t, err, db.ErrNoConnection)
	assert.Nil(t, database)

	coll, err := manager.Collection("users")
	require.ErrorIs(t, err, db.ErrNoConnection)
	assert.Nil(t, coll)

	require.ErrorIs(t, manager.Ping(context.Background()), db.ErrNoConnection)
	require.NoError(t, manager.Close(context.Background()))
}

func TestManager_ConnectWithoutURI(t *testing.T) {
	manager := db.NewManager(config.MongoConfig{Database: "test"})

	err := manager.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo uri is not configured")

	_, err = manager.Database()
	require.ErrorIs(t, err, db.ErrNoConnection)
}

func TestManager_ConnectInvalidURI(t *testing.T) {
	manager := db.NewManager(config.MongoConfig{URI: "postgres://localhost:5432", Database: "test"})

	err := manager.Connect(context.Background())
	require.Error(t, err)

	_, err = manager.Collection("users")
	require.ErrorIs(t, err, db.ErrNoConnection)
}

func TestManager_ConnectRunsOnce(t *testing.T) {
	manager := db.NewManager(config.MongoConfig{})

	first := manager.Connect(context.Background())
	require.Error(t, first)

	second := manager.Connect(context.Background())
	assert.Same(t, first, second)
}

func TestManager_ConcurrentLookups(t *testing.T) {
	manager := db.NewManager(config.MongoConfig{})
	_ = manager.Connect(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Collection("users")
			assert.ErrorIs(t, err, db.ErrNoConnection)
		}()
	}
	wg.Wait()
}
