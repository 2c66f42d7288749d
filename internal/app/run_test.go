package app_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"menusvc/internal/app"
	"menusvc/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func memoryConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:            freePort(t),
		StoreDriver:     config.DriverMemory,
		StoreTimeout:    time.Second,
		RateLimit:       100,
		RateLimitBurst:  100,
		ShutdownTimeout: 2 * time.Second,
		SeedOnStart:     true,
	}
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	cfg := memoryConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, cfg) }()

	url := fmt.Sprintf("http://%s/menuitems", cfg.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := memoryConfig(t)
	cfg.Port = ln.Addr().String()

	err = app.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server failed")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []*config.Config{
		{StoreDriver: config.DriverMemory},
		{StoreDriver: config.DriverSQLite, DatabaseDSN: "file:open_store?mode=memory&cache=shared"},
	} {
		store, err := app.OpenStore(ctx, cfg)
		require.NoError(t, err, cfg.StoreDriver)
		assert.NoError(t, store.Ping(ctx))

		items, err := store.Accessor.GetAllItems(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, store.Close(ctx))
	}

	// Mongo does not dial until first use.
	store, err := app.OpenStore(ctx, &config.Config{
		StoreDriver: config.DriverMongo,
		Mongo:       config.MongoConfig{URI: "mongodb://127.0.0.1:1", Database: "restaurantdb", Collection: "menuitems"},
	})
	require.NoError(t, err)
	assert.NoError(t, store.Close(ctx))

	_, err = app.OpenStore(ctx, &config.Config{StoreDriver: "redis"})
	assert.Error(t, err)
}
