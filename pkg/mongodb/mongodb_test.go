package mongodb_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"menusvc/pkg/mongodb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nothing listens on port 1; mongo.Connect does not dial eagerly.
const unreachableURI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=100&connectTimeoutMS=100"

func countingManager(cfg mongodb.Config, calls *int32) *mongodb.ConnectionManager {
	return mongodb.NewConnectionManager(cfg).WithConnectFunc(
		func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error) {
			atomic.AddInt32(calls, 1)
			return mongo.Connect(ctx, opts...)
		})
}

func TestConnectionManager_MemoizesClient(t *testing.T) {
	var calls int32
	m := countingManager(mongodb.Config{URI: unreachableURI, Database: "restaurantdb", Collection: "menuitems"}, &calls)
	defer m.Close(context.Background())

	first, err := m.Client(context.Background())
	require.NoError(t, err)
	second, err := m.Client(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestConnectionManager_ConcurrentFirstUse(t *testing.T) {
	var calls int32
	m := countingManager(mongodb.Config{URI: unreachableURI, Database: "restaurantdb", Collection: "menuitems"}, &calls)
	defer m.Close(context.Background())

	var wg sync.WaitGroup
	clients := make([]*mongo.Client, 16)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := m.Client(context.Background())
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, c := range clients {
		assert.Same(t, clients[0], c)
	}
}

func TestConnectionManager_Collection(t *testing.T) {
	m := mongodb.NewConnectionManager(mongodb.Config{URI: unreachableURI, Database: "restaurantdb", Collection: "menuitems"})
	defer m.Close(context.Background())

	coll, err := m.Collection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "menuitems", coll.Name())
	assert.Equal(t, "restaurantdb", coll.Database().Name())
}

func TestConnectionManager_CloseIsIdempotent(t *testing.T) {
	var calls int32
	m := countingManager(mongodb.Config{URI: unreachableURI, Database: "restaurantdb", Collection: "menuitems"}, &calls)

	// Never connected.
	assert.NoError(t, m.Close(context.Background()))

	_, err := m.Client(context.Background())
	require.NoError(t, err)
	assert.NoError(t, m.Close(context.Background()))
	assert.NoError(t, m.Close(context.Background()))

	// A closed manager reconnects on next use.
	_, err = m.Client(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.NoError(t, m.Close(context.Background()))
}

func TestConnectionManager_InvalidURI(t *testing.T) {
	m := mongodb.NewConnectionManager(mongodb.Config{URI: "not-a-mongo-uri", Database: "restaurantdb", Collection: "menuitems"})

	_, err := m.Collection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to MongoDB")
}

func TestConnectionManager_PingUnreachable(t *testing.T) {
	m := mongodb.NewConnectionManager(mongodb.Config{URI: unreachableURI, Database: "restaurantdb", Collection: "menuitems"})
	defer m.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := m.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping MongoDB")
}
